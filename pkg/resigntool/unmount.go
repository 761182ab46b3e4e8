// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"github.com/spf13/cobra"
)

// getUnmount returns a command that unmounts a previously mounted payload
// filesystem.
func (c *command) getUnmount() *cobra.Command {
	return &cobra.Command{
		Use:     "unmount <mount_path>",
		Short:   "Unmount AppImage payload",
		Long:    "Unmount the payload filesystem mounted at the supplied path",
		Example: c.opts.rootPath + " unmount path/",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Unmount(cmd.Context(), args[0])
		},
		DisableFlagsInUseLine: true,
	}
}
