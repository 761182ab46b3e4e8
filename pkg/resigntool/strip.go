// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"github.com/spf13/cobra"
	"github.com/xXRoxXeRXx/appimage-resigner/internal/app/resigntool"
)

// getStrip returns a command that removes the embedded signature from an
// AppImage.
func (c *command) getStrip() *cobra.Command {
	var opts resigntool.StripOptions

	cmd := &cobra.Command{
		Use:     "strip <appimage_path>",
		Short:   "Strip AppImage signature",
		Long:    "Remove the embedded signature from an AppImage, leaving the canonical payload",
		Example: c.opts.rootPath + " strip app.AppImage",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Strip(args[0], opts)
		},
		DisableFlagsInUseLine: true,
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "write the stripped artifact to this path instead of in place")
	cmd.Flags().BoolVar(&opts.Sidecar, "asc", false, "remove the sidecar signature file as well")

	return cmd
}
