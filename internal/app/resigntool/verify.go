// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"errors"
	"fmt"
	"os"

	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/integrity"
)

// VerifyOptions contains the options when verifying an AppImage.
type VerifyOptions struct {
	// KeyPath is the path to the public key material to verify against.
	KeyPath string

	// SignaturePath is the path to a detached signature file. Empty means
	// the embedded signature is verified; if the artifact carries no
	// embedded signature and the conventional sidecar file exists, the
	// sidecar is verified instead.
	SignaturePath string
}

// resolveSignature determines the signature source for im per opts. It
// returns the detached signature bytes, or nil when the embedded signature
// is to be used.
func resolveSignature(im *appimage.Image, path string, opts VerifyOptions) ([]byte, error) {
	if opts.SignaturePath != "" {
		b, err := os.ReadFile(opts.SignaturePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read signature file: %w", err)
		}
		return b, nil
	}

	if _, err := im.Signature(); errors.Is(err, appimage.ErrNoSignature) {
		if b, err := os.ReadFile(sidecarPath(path)); err == nil {
			return b, nil
		}
	}

	return nil, nil
}

// Verify verifies the signature of the AppImage at path according to opts,
// and writes a description of the result. A non-nil error is returned if
// the signature is missing, malformed, not valid, or made by an unknown
// entity.
func (a *App) Verify(path string, opts VerifyOptions) error {
	im, err := appimage.LoadImage(path)
	if err != nil {
		return err
	}

	kr := integrity.NewKeyring()

	if opts.KeyPath != "" {
		f, err := os.Open(opts.KeyPath)
		if err != nil {
			return fmt.Errorf("failed to open key material: %w", err)
		}
		defer f.Close()

		if _, err := kr.ImportPublic(f); err != nil {
			return err
		}
	}

	vo := []integrity.VerifierOpt{
		integrity.OptVerifyWithKeyRing(kr),
	}

	detached, err := resolveSignature(im, path, opts)
	if err != nil {
		return err
	}
	if detached != nil {
		vo = append(vo, integrity.OptVerifyDetached(detached))
	}

	v, err := integrity.NewVerifier(im, vo...)
	if err != nil {
		return err
	}

	r, err := v.Verify()
	a.writeResult(r)

	return err
}

// writeResult writes a description of r.
func (a *App) writeResult(r integrity.VerifyResult) {
	if !r.Verified() {
		fmt.Fprintf(a.opts.err, "Signature not verified: %v\n", r.Error())
		if r.KeyID() != 0 {
			fmt.Fprintf(a.opts.err, "Signature made by key %v\n", r.KeyIDString())
		}
		return
	}

	fmt.Fprintf(a.opts.out, "Signature verified (%v)\n", r.Origin())
	fmt.Fprintf(a.opts.out, "  Signer:      %v\n", r.SignerIdentity())
	fmt.Fprintf(a.opts.out, "  Key ID:      %v\n", r.KeyIDString())
	fmt.Fprintf(a.opts.out, "  Fingerprint: %v\n", r.Fingerprint())
	fmt.Fprintf(a.opts.out, "  Trust:       %v\n", r.Trust())
	fmt.Fprintf(a.opts.out, "  Signed at:   %v\n", r.SignedAt().UTC())
}
