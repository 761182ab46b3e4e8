// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"context"
	"crypto"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"github.com/sigstore/sigstore/pkg/signature"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/integrity"
)

// AttestOptions contains the options when attesting an AppImage.
type AttestOptions struct {
	// KeyPath is the path to the PEM-encoded private key to sign the
	// attestation envelope with.
	KeyPath string

	// OutputPath is where the envelope is written. Empty means the
	// conventional attestation path next to the artifact.
	OutputPath string
}

// Attest signs a digest manifest of the AppImage at path, and writes the
// resulting DSSE envelope. The digest covers the canonical payload, so the
// attestation remains verifiable across PGP re-signing.
func (a *App) Attest(ctx context.Context, path string, opts AttestOptions) error {
	im, err := appimage.LoadImage(path)
	if err != nil {
		return err
	}

	s, err := signature.LoadSignerFromPEMFile(opts.KeyPath, crypto.SHA256, cryptoutils.SkipPassword)
	if err != nil {
		return fmt.Errorf("failed to load key material: %w", err)
	}

	at, err := integrity.NewAttester(im,
		integrity.OptAttestWithSigner(s),
		integrity.OptAttestWithName(filepath.Base(path)),
		integrity.OptAttestWithContext(ctx),
	)
	if err != nil {
		return err
	}

	env, err := at.Attest()
	if err != nil {
		return err
	}

	out := opts.OutputPath
	if out == "" {
		out = attestationPath(path)
	}

	if err := os.WriteFile(out, env, 0o644); err != nil {
		return fmt.Errorf("failed to write attestation: %w", err)
	}

	fmt.Fprintf(a.opts.out, "Attestation written to %v\n", out)

	return nil
}

// VerifyAttestationOptions contains the options when verifying an
// attestation.
type VerifyAttestationOptions struct {
	// KeyPath is the path to the PEM-encoded key to verify the envelope
	// with.
	KeyPath string

	// EnvelopePath is the path to the DSSE envelope. Empty means the
	// conventional attestation path next to the artifact.
	EnvelopePath string
}

// VerifyAttestation verifies a DSSE attestation against the AppImage at
// path.
func (a *App) VerifyAttestation(ctx context.Context, path string, opts VerifyAttestationOptions) error {
	im, err := appimage.LoadImage(path)
	if err != nil {
		return err
	}

	sv, err := signature.LoadSignerVerifierFromPEMFile(opts.KeyPath, crypto.SHA256, cryptoutils.SkipPassword)
	if err != nil {
		return fmt.Errorf("failed to load key material: %w", err)
	}

	av, err := integrity.NewAttVerifier(im,
		integrity.OptAttVerifyWithVerifier(sv),
		integrity.OptAttVerifyWithContext(ctx),
	)
	if err != nil {
		return err
	}

	envPath := opts.EnvelopePath
	if envPath == "" {
		envPath = attestationPath(path)
	}

	env, err := os.ReadFile(envPath)
	if err != nil {
		return fmt.Errorf("failed to read attestation: %w", err)
	}

	if err := av.Verify(env); err != nil {
		return err
	}

	fmt.Fprintln(a.opts.out, "Attestation verified")

	return nil
}
