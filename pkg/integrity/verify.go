// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
)

// supportedPGPAlgorithms lists the digest algorithms accepted in signatures.
var supportedPGPAlgorithms = []crypto.Hash{
	crypto.SHA224,
	crypto.SHA256,
	crypto.SHA384,
	crypto.SHA512,
}

const armorSignatureType = "PGP SIGNATURE"

var errUnexpectedArmorType = errors.New("unexpected armor block type")

// SignatureNotValidError records an error when a signature is not valid.
type SignatureNotValidError struct {
	Err error
}

// Error returns a human-readable representation of e.
func (e *SignatureNotValidError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signature not valid: %v", e.Err)
	}
	return "signature not valid"
}

// Unwrap returns the error wrapped by e.
func (e *SignatureNotValidError) Unwrap() error {
	return e.Err
}

// Is compares e against target. If target is a SignatureNotValidError with
// no wrapped error, the comparison always succeeds.
func (e *SignatureNotValidError) Is(target error) bool {
	t, ok := target.(*SignatureNotValidError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}

// UnknownSignerError records a signature made by an entity not present in
// the verification keyring.
type UnknownSignerError struct {
	KeyID uint64
}

// Error returns a human-readable representation of e.
func (e *UnknownSignerError) Error() string {
	if e.KeyID != 0 {
		return fmt.Sprintf("signature made by unknown entity: %016X", e.KeyID)
	}
	return "signature made by unknown entity"
}

// Is compares e against target. If target is an UnknownSignerError with a
// zero key ID, the comparison always succeeds.
func (e *UnknownSignerError) Is(target error) bool {
	t, ok := target.(*UnknownSignerError)
	if !ok {
		return false
	}
	return t.KeyID == 0 || t.KeyID == e.KeyID
}

type verifyOpts struct {
	kr       openpgp.KeyRing
	detached []byte
	timeFunc func() time.Time
}

// VerifierOpt are used to configure vo.
type VerifierOpt func(vo *verifyOpts) error

// OptVerifyWithKeyRing specifies kr as the keyring holding the public keys
// signatures are verified against.
func OptVerifyWithKeyRing(kr openpgp.KeyRing) VerifierOpt {
	return func(vo *verifyOpts) error {
		vo.kr = kr
		return nil
	}
}

// OptVerifyDetached verifies b as a detached signature over the raw image
// bytes, instead of locating an embedded signature.
func OptVerifyDetached(b []byte) VerifierOpt {
	return func(vo *verifyOpts) error {
		vo.detached = b
		return nil
	}
}

// OptVerifyWithTime specifies fn as the verification time source.
func OptVerifyWithTime(fn func() time.Time) VerifierOpt {
	return func(vo *verifyOpts) error {
		vo.timeFunc = fn
		return nil
	}
}

// Verifier verifies a signature over the canonical payload of an AppImage.
type Verifier struct {
	im   *appimage.Image
	opts verifyOpts
}

// NewVerifier returns a Verifier to verify im, according to opts.
//
// By default the signature embedded at the tail of the image is verified
// against the canonical payload. Use OptVerifyDetached to verify an external
// signature over the image bytes as supplied.
func NewVerifier(im *appimage.Image, opts ...VerifierOpt) (*Verifier, error) {
	if im == nil {
		return nil, fmt.Errorf("integrity: %w", errNilImage)
	}

	vo := verifyOpts{}

	for _, opt := range opts {
		if err := opt(&vo); err != nil {
			return nil, fmt.Errorf("integrity: %w", err)
		}
	}

	return &Verifier{im: im, opts: vo}, nil
}

// sigMetadata describes what a signature packet claims about itself, before
// any cryptographic check.
type sigMetadata struct {
	keyID uint64
	fp    []byte
	t     time.Time
}

// decodeArmor decodes sb and introspects its first signature packet.
func decodeArmor(sb appimage.SignatureBlock) ([]byte, sigMetadata, error) {
	var md sigMetadata

	block, err := armor.Decode(bytes.NewReader(sb.Armored()))
	if err != nil {
		return nil, md, err
	}

	if block.Type != armorSignatureType {
		return nil, md, errUnexpectedArmorType
	}

	body, err := io.ReadAll(block.Body)
	if err != nil {
		return nil, md, err
	}

	pr := packet.NewReader(bytes.NewReader(body))
	for {
		p, err := pr.Next()
		if err != nil {
			break
		}

		if sig, ok := p.(*packet.Signature); ok {
			if sig.IssuerKeyId != nil {
				md.keyID = *sig.IssuerKeyId
			}
			md.fp = sig.IssuerFingerprint
			md.t = sig.CreationTime
			break
		}
	}

	return body, md, nil
}

// Verify verifies the signature over the image, returning a result
// describing the signature and the signer.
//
// On failure, the returned error is also recorded in the result, alongside
// whatever metadata the signature block itself claims. A signature made by a
// key absent from the keyring yields an error wrapping UnknownSignerError; a
// signature that fails cryptographic verification yields an error wrapping
// SignatureNotValidError.
func (v *Verifier) Verify() (VerifyResult, error) {
	vr := VerifyResult{origin: OriginEmbedded}

	var payload []byte
	var sb appimage.SignatureBlock
	var err error

	if v.opts.detached != nil {
		vr.origin = OriginDetached
		payload = v.im.Bytes()
		sb, err = appimage.NewSignatureBlock(v.opts.detached)
	} else {
		payload, sb, err = v.im.Split()
	}
	if err != nil {
		vr.err = fmt.Errorf("integrity: %w", err)
		return vr, vr.err
	}

	body, md, err := decodeArmor(sb)
	if err != nil {
		vr.err = fmt.Errorf("integrity: %w", &SignatureNotValidError{Err: err})
		return vr, vr.err
	}

	vr.keyID = md.keyID
	vr.fp = md.fp
	vr.t = md.t

	if v.opts.kr == nil {
		vr.err = fmt.Errorf("integrity: %w", &UnknownSignerError{KeyID: md.keyID})
		return vr, vr.err
	}

	config := packet.Config{
		Time: v.opts.timeFunc,
	}

	e, err := openpgp.CheckDetachedSignatureAndHash(
		v.opts.kr,
		bytes.NewReader(payload),
		bytes.NewReader(body),
		supportedPGPAlgorithms,
		&config,
	)
	if err != nil {
		if errors.Is(err, pgperrors.ErrUnknownIssuer) {
			vr.err = fmt.Errorf("integrity: %w", &UnknownSignerError{KeyID: md.keyID})
		} else {
			vr.err = fmt.Errorf("integrity: %w", &SignatureNotValidError{Err: err})
		}
		return vr, vr.err
	}

	vr.valid = true
	vr.e = e
	vr.fp = e.PrimaryKey.Fingerprint

	if kr, ok := v.opts.kr.(*Keyring); ok {
		vr.trust = kr.Trust(e.PrimaryKey.Fingerprint)
	}

	return vr, nil
}
