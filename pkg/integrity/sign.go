// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
)

var (
	// ErrNoKeyMaterial is the error returned when a signer is created
	// without an entity to sign with.
	ErrNoKeyMaterial = errors.New("key material not provided")

	// ErrLockedKey is the error returned when the signing key is encrypted
	// and no passphrase was supplied.
	ErrLockedKey = errors.New("private key is locked and no passphrase supplied")

	errNilImage = errors.New("image must not be nil")
)

// SigningError records an error that occurred while producing a signature.
type SigningError struct {
	Err error
}

// Error returns a human-readable representation of e.
func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %v", e.Err)
}

// Unwrap returns the error wrapped by e.
func (e *SigningError) Unwrap() error {
	return e.Err
}

// Is compares e against target. If target is a SigningError with no wrapped
// error, the comparison always succeeds.
func (e *SigningError) Is(target error) bool {
	t, ok := target.(*SigningError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}

type signOpts struct {
	e          *openpgp.Entity
	passphrase *Passphrase
	embed      bool
	timeFunc   func() time.Time
}

// SignerOpt are used to configure so.
type SignerOpt func(so *signOpts) error

// OptSignWithEntity specifies e as the entity to sign with.
func OptSignWithEntity(e *openpgp.Entity) SignerOpt {
	return func(so *signOpts) error {
		so.e = e
		return nil
	}
}

// OptSignWithPassphrase specifies p as the material to unlock the signing
// key with. The passphrase is destroyed when Sign returns, whether or not
// signing succeeded.
func OptSignWithPassphrase(p *Passphrase) SignerOpt {
	return func(so *signOpts) error {
		so.passphrase = p
		return nil
	}
}

// OptSignDetached returns the signature block without embedding it in the
// image.
func OptSignDetached() SignerOpt {
	return func(so *signOpts) error {
		so.embed = false
		return nil
	}
}

// OptSignWithTime specifies fn as the signature creation time source.
func OptSignWithTime(fn func() time.Time) SignerOpt {
	return func(so *signOpts) error {
		so.timeFunc = fn
		return nil
	}
}

// Signer signs the canonical payload of an AppImage.
type Signer struct {
	im   *appimage.Image
	opts signOpts
}

// NewSigner returns a Signer to sign im, according to opts.
//
// Sign requires key material, typically provided by OptSignWithEntity. By
// default the produced signature block is embedded in im; use
// OptSignDetached to leave the image untouched.
func NewSigner(im *appimage.Image, opts ...SignerOpt) (*Signer, error) {
	if im == nil {
		return nil, fmt.Errorf("integrity: %w", errNilImage)
	}

	so := signOpts{
		embed: true,
	}

	for _, opt := range opts {
		if err := opt(&so); err != nil {
			return nil, fmt.Errorf("integrity: %w", err)
		}
	}

	if so.e == nil {
		return nil, fmt.Errorf("integrity: %w", ErrNoKeyMaterial)
	}

	return &Signer{im: im, opts: so}, nil
}

// unlock decrypts the private key material of e using p, if required.
func unlock(e *openpgp.Entity, p *Passphrase) error {
	if e.PrivateKey == nil {
		return ErrNoPrivateKey
	}

	keys := []*packet.PrivateKey{e.PrivateKey}
	for _, sk := range e.Subkeys {
		if sk.PrivateKey != nil {
			keys = append(keys, sk.PrivateKey)
		}
	}

	for _, pk := range keys {
		if !pk.Encrypted {
			continue
		}

		if p == nil {
			return ErrLockedKey
		}

		if err := p.use(pk.Decrypt); err != nil {
			return err
		}
	}

	return nil
}

// Sign signs the canonical payload of the image and returns the resulting
// signature block. The image is reduced to its canonical payload before
// signing; with embedding enabled the block is then appended with a single
// line-feed separator, otherwise the image is left holding the bare
// payload.
//
// If the image carries a malformed terminal signature block, Sign fails
// with an error wrapping appimage.MalformedSignatureError rather than
// signing over it.
//
// The passphrase supplied via OptSignWithPassphrase, if any, is destroyed
// before Sign returns, on success and failure alike.
func (s *Signer) Sign() (appimage.SignatureBlock, error) {
	defer func() {
		if s.opts.passphrase != nil {
			s.opts.passphrase.Destroy()
		}
	}()

	if err := unlock(s.opts.e, s.opts.passphrase); err != nil {
		return appimage.SignatureBlock{}, fmt.Errorf("integrity: %w", &SigningError{Err: err})
	}

	config := packet.Config{
		Time: s.opts.timeFunc,
	}

	// A corrupt terminal block is never absorbed into the signed payload.
	// The caller must repair or truncate the artifact first.
	if _, err := s.im.Signature(); err != nil && !errors.Is(err, appimage.ErrNoSignature) {
		return appimage.SignatureBlock{}, fmt.Errorf("integrity: %w", err)
	}

	// Always reduce to the canonical payload first, so re-signing a signed
	// artifact covers the same bytes the original signature did.
	s.im.StripSignature()
	payload := s.im.Bytes()

	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&buf, s.opts.e, bytes.NewReader(payload), &config); err != nil {
		return appimage.SignatureBlock{}, fmt.Errorf("integrity: %w", &SigningError{Err: err})
	}

	sb, err := appimage.NewSignatureBlock(buf.Bytes())
	if err != nil {
		return appimage.SignatureBlock{}, fmt.Errorf("integrity: %w", &SigningError{Err: err})
	}

	if s.opts.embed {
		s.im.Embed(sb)
	}

	return sb, nil
}
