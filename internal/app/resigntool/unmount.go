// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"context"

	"github.com/xXRoxXeRXx/appimage-resigner/pkg/user"
)

// Unmount unmounts the filesystem at mountPath.
func (a *App) Unmount(ctx context.Context, mountPath string) error {
	return user.Unmount(ctx, mountPath,
		user.OptUnmountStdout(a.opts.out),
		user.OptUnmountStderr(a.opts.err),
	)
}
