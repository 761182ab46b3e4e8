// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"github.com/spf13/cobra"
	"github.com/xXRoxXeRXx/appimage-resigner/internal/app/resigntool"
)

// getAttest returns a command that produces a digest attestation for an
// AppImage.
func (c *command) getAttest() *cobra.Command {
	var opts resigntool.AttestOptions

	cmd := &cobra.Command{
		Use:     "attest <appimage_path>",
		Short:   "Attest AppImage digest",
		Long:    "Sign a digest manifest of an AppImage into a DSSE envelope",
		Example: c.opts.rootPath + " attest --key attest.pem app.AppImage",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Attest(cmd.Context(), args[0], opts)
		},
		DisableFlagsInUseLine: true,
	}

	cmd.Flags().StringVarP(&opts.KeyPath, "key", "k", "", "path to the PEM-encoded private key to sign with")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "write the envelope to this path")
	cobra.CheckErr(cmd.MarkFlagRequired("key"))

	return cmd
}

// getVerifyAttestation returns a command that verifies a digest attestation
// against an AppImage.
func (c *command) getVerifyAttestation() *cobra.Command {
	var opts resigntool.VerifyAttestationOptions

	cmd := &cobra.Command{
		Use:     "verify-attestation <appimage_path>",
		Short:   "Verify AppImage attestation",
		Long:    "Verify a DSSE digest attestation against an AppImage",
		Example: c.opts.rootPath + " verify-attestation --key attest.pem app.AppImage",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.VerifyAttestation(cmd.Context(), args[0], opts)
		},
		DisableFlagsInUseLine: true,
	}

	cmd.Flags().StringVarP(&opts.KeyPath, "key", "k", "", "path to the PEM-encoded key to verify with")
	cmd.Flags().StringVarP(&opts.EnvelopePath, "attestation", "a", "", "path to the DSSE envelope")
	cobra.CheckErr(cmd.MarkFlagRequired("key"))

	return cmd
}
