// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"github.com/spf13/cobra"
	"github.com/xXRoxXeRXx/appimage-resigner/internal/app/resigntool"
)

// getVerify returns a command that verifies the signature of an AppImage.
func (c *command) getVerify() *cobra.Command {
	var opts resigntool.VerifyOptions

	cmd := &cobra.Command{
		Use:     "verify <appimage_path>",
		Short:   "Verify AppImage signature",
		Long:    "Verify the embedded or detached signature of an AppImage",
		Example: c.opts.rootPath + " verify --key public.asc app.AppImage",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Verify(args[0], opts)
		},
		DisableFlagsInUseLine: true,
	}

	cmd.Flags().StringVarP(&opts.KeyPath, "key", "k", "", "path to the public key material to verify against")
	cmd.Flags().StringVarP(&opts.SignaturePath, "signature", "s", "", "path to a detached signature file")

	return cmd
}
