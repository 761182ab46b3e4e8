// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xXRoxXeRXx/appimage-resigner/internal/app/resigntool"
)

// readPassphrase reads a passphrase from the file at path, or from the open
// file descriptor fd when path is empty. A single trailing line ending is
// not part of the passphrase.
func readPassphrase(path string, fd int) (string, error) {
	var r io.Reader

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		defer f.Close()
		r = f
	} else {
		f := os.NewFile(uintptr(fd), "passphrase")
		defer f.Close()
		r = f
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}

	return strings.TrimRight(string(b), "\r\n"), nil
}

// getSign returns a command that signs an AppImage.
func (c *command) getSign() *cobra.Command {
	var opts resigntool.SignOptions
	var passphraseFile string
	passphraseFd := -1

	cmd := &cobra.Command{
		Use:     "sign <appimage_path>",
		Short:   "Sign AppImage",
		Long:    "Sign an AppImage, replacing any existing embedded signature",
		Example: c.opts.rootPath + " sign --key signing.asc app.AppImage",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphraseFile != "" || passphraseFd >= 0 {
				p, err := readPassphrase(passphraseFile, passphraseFd)
				if err != nil {
					return err
				}
				opts.Passphrase = p
			}
			return c.app.Sign(args[0], opts)
		},
		DisableFlagsInUseLine: true,
	}

	cmd.Flags().StringVarP(&opts.KeyPath, "key", "k", "", "path to the private key material to sign with")
	cmd.Flags().StringVar(&opts.KeyID, "keyid", "", "fingerprint suffix selecting the signing key from the key material")
	cmd.Flags().StringVarP(&opts.Passphrase, "passphrase", "p", "", "passphrase to unlock the key material")
	cmd.Flags().StringVar(&passphraseFile, "passphrase-file", "", "read the passphrase from this file")
	cmd.Flags().IntVar(&passphraseFd, "passphrase-fd", -1, "read the passphrase from this open file descriptor")
	cmd.Flags().BoolVar(&opts.Detached, "detached", false, "write a detached signature file instead of embedding")
	cmd.Flags().BoolVar(&opts.Sidecar, "sidecar", false, "additionally write the signature to a sidecar file")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "write the signed artifact to this path instead of in place")
	cmd.MarkFlagsMutuallyExclusive("passphrase", "passphrase-file", "passphrase-fd")
	cobra.CheckErr(cmd.MarkFlagRequired("key"))

	return cmd
}
