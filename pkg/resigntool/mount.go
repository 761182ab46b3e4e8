// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"github.com/spf13/cobra"
)

// getMount returns a command that mounts the payload filesystem of an
// AppImage.
func (c *command) getMount() *cobra.Command {
	return &cobra.Command{
		Use:     "mount <appimage_path> <mount_path>",
		Short:   "Mount AppImage payload",
		Long:    "Mount the payload filesystem of a Type 2 AppImage",
		Example: c.opts.rootPath + " mount app.AppImage path/",
		Args:    cobra.ExactArgs(2),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Mount(cmd.Context(), args[0], args[1])
		},
		DisableFlagsInUseLine: true,
	}
}
