// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"github.com/spf13/cobra"
)

// getInfo returns a command that describes an AppImage.
func (c *command) getInfo() *cobra.Command {
	return &cobra.Command{
		Use:     "info <appimage_path>",
		Short:   "Display AppImage information",
		Long:    "Display the container type, sizes and signature details of an AppImage",
		Example: c.opts.rootPath + " info app.AppImage",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Info(args[0])
		},
		DisableFlagsInUseLine: true,
	}
}
