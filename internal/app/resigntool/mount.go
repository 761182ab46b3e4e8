// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"context"

	"github.com/xXRoxXeRXx/appimage-resigner/pkg/user"
)

// Mount mounts the payload filesystem of the AppImage at path into mountPath.
func (a *App) Mount(ctx context.Context, path, mountPath string) error {
	return user.Mount(ctx, path, mountPath,
		user.OptMountStdout(a.opts.out),
		user.OptMountStderr(a.opts.err),
	)
}
