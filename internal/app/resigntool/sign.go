// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"fmt"
	"os"
	"time"

	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/integrity"
)

// SignOptions contains the options when signing an AppImage.
type SignOptions struct {
	// KeyPath is the path to the private key material to sign with.
	KeyPath string

	// KeyID selects the signing key from the key material by hexadecimal
	// fingerprint suffix. Empty means the first private key is used.
	KeyID string

	// Passphrase unlocks the key material, if it is encrypted.
	Passphrase string

	// Detached leaves the artifact unsigned and writes the signature to the
	// sidecar file only.
	Detached bool

	// Sidecar additionally writes the signature to the conventional sidecar
	// file next to the output artifact.
	Sidecar bool

	// OutputPath is where the signed artifact is written. Empty means the
	// artifact is replaced in place.
	OutputPath string

	// Time overrides the signature creation time source.
	Time func() time.Time
}

// Sign signs the AppImage at path according to opts. Any existing embedded
// signature is replaced, never layered over. When the signature is embedded,
// a sidecar signature file left next to the output artifact by an earlier
// detached signing is removed, so a stale signature never shadows the
// current one.
func (a *App) Sign(path string, opts SignOptions) error {
	im, err := appimage.LoadImage(path)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.KeyPath)
	if err != nil {
		return fmt.Errorf("failed to open key material: %w", err)
	}
	defer f.Close()

	kr := integrity.NewKeyring()

	e, err := kr.ImportEphemeral(f)
	if err != nil {
		return err
	}

	if opts.KeyID != "" {
		if e, err = kr.Entity(opts.KeyID); err != nil {
			return err
		}
	}

	so := []integrity.SignerOpt{
		integrity.OptSignWithEntity(e),
	}

	if opts.Passphrase != "" {
		p, err := integrity.NewPassphrase(opts.Passphrase)
		if err != nil {
			return err
		}
		so = append(so, integrity.OptSignWithPassphrase(p))
	}

	if opts.Detached {
		so = append(so, integrity.OptSignDetached())
	}

	if opts.Time != nil {
		so = append(so, integrity.OptSignWithTime(opts.Time))
	}

	s, err := integrity.NewSigner(im, so...)
	if err != nil {
		return err
	}

	sb, err := s.Sign()
	if err != nil {
		return err
	}

	out := opts.OutputPath
	if out == "" {
		out = path
	}

	if err := writeImage(im, out); err != nil {
		return err
	}

	if opts.Detached || opts.Sidecar {
		if err := os.WriteFile(sidecarPath(out), sb.Armored(), 0o644); err != nil {
			return fmt.Errorf("failed to write signature file: %w", err)
		}
	} else if err := os.Remove(sidecarPath(out)); err == nil {
		fmt.Fprintf(a.opts.out, "Stale signature file %v removed\n", sidecarPath(out))
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale signature file: %w", err)
	}

	fmt.Fprintf(a.opts.out, "Signature made with key %X\n", e.PrimaryKey.Fingerprint)

	return nil
}
