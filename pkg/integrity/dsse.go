// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"bytes"
	"context"
	"crypto"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	ssldsse "github.com/secure-systems-lab/go-securesystemslib/dsse"
	"github.com/sigstore/sigstore/pkg/signature"
	"github.com/sigstore/sigstore/pkg/signature/dsse"
	"github.com/sigstore/sigstore/pkg/signature/options"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
)

// digestMediaType is the DSSE payload type of an AppImage digest manifest.
const digestMediaType = "application/vnd.appimage.digest+json"

var (
	// ErrNoAttestationKey is the error returned when an attester or
	// attestation verifier is created without key material.
	ErrNoAttestationKey = errors.New("attestation key material not provided")

	errUnexpectedPayloadType = errors.New("unexpected DSSE payload type")
)

// digestManifest is the attested description of an AppImage. The digest
// covers the canonical payload, so embedding or stripping a PGP signature
// does not invalidate the attestation.
type digestManifest struct {
	Name   string `json:"name,omitempty"`
	Size   int64  `json:"size"`
	Digest digest `json:"digest"`
}

// newDigestManifest returns a manifest describing the canonical payload of im.
func newDigestManifest(im *appimage.Image, name string) (digestManifest, error) {
	payload := im.Payload()

	d, err := newDigest(crypto.SHA256, bytes.NewReader(payload))
	if err != nil {
		return digestManifest{}, err
	}

	return digestManifest{
		Name:   name,
		Size:   int64(len(payload)),
		Digest: d,
	}, nil
}

type attestOpts struct {
	ss   []signature.Signer
	name string
	ctx  context.Context //nolint:containedctx
}

// AttesterOpt are used to configure ao.
type AttesterOpt func(ao *attestOpts) error

// OptAttestWithSigner specifies ss as the signers of the attestation
// envelope.
func OptAttestWithSigner(ss ...signature.Signer) AttesterOpt {
	return func(ao *attestOpts) error {
		ao.ss = append(ao.ss, ss...)
		return nil
	}
}

// OptAttestWithName records name as the artifact name in the manifest.
func OptAttestWithName(name string) AttesterOpt {
	return func(ao *attestOpts) error {
		ao.name = name
		return nil
	}
}

// OptAttestWithContext specifies ctx as the context to use.
func OptAttestWithContext(ctx context.Context) AttesterOpt {
	return func(ao *attestOpts) error {
		ao.ctx = ctx
		return nil
	}
}

// Attester produces a DSSE envelope attesting to the digest of the
// canonical payload of an AppImage.
type Attester struct {
	im   *appimage.Image
	opts attestOpts
}

// NewAttester returns an Attester for im, according to opts. At least one
// signer must be supplied via OptAttestWithSigner.
func NewAttester(im *appimage.Image, opts ...AttesterOpt) (*Attester, error) {
	if im == nil {
		return nil, fmt.Errorf("integrity: %w", errNilImage)
	}

	ao := attestOpts{
		ctx: context.Background(),
	}

	for _, opt := range opts {
		if err := opt(&ao); err != nil {
			return nil, fmt.Errorf("integrity: %w", err)
		}
	}

	if len(ao.ss) == 0 {
		return nil, fmt.Errorf("integrity: %w", ErrNoAttestationKey)
	}

	return &Attester{im: im, opts: ao}, nil
}

// Attest signs a digest manifest of the image, returning the serialized
// DSSE envelope.
func (a *Attester) Attest() ([]byte, error) {
	m, err := newDigestManifest(a.im, a.opts.name)
	if err != nil {
		return nil, fmt.Errorf("integrity: %w", err)
	}

	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("integrity: %w", err)
	}

	es := dsse.WrapMultiSigner(digestMediaType, a.opts.ss...)

	env, err := es.SignMessage(bytes.NewReader(body), options.WithContext(a.opts.ctx))
	if err != nil {
		return nil, fmt.Errorf("integrity: %w", err)
	}

	return env, nil
}

type attVerifyOpts struct {
	vs  []signature.Verifier
	ctx context.Context //nolint:containedctx
}

// AttVerifierOpt are used to configure vo.
type AttVerifierOpt func(vo *attVerifyOpts) error

// OptAttVerifyWithVerifier specifies vs as the verifiers of the attestation
// envelope.
func OptAttVerifyWithVerifier(vs ...signature.Verifier) AttVerifierOpt {
	return func(vo *attVerifyOpts) error {
		vo.vs = append(vo.vs, vs...)
		return nil
	}
}

// OptAttVerifyWithContext specifies ctx as the context to use.
func OptAttVerifyWithContext(ctx context.Context) AttVerifierOpt {
	return func(vo *attVerifyOpts) error {
		vo.ctx = ctx
		return nil
	}
}

// AttVerifier verifies a DSSE attestation against an AppImage.
type AttVerifier struct {
	im   *appimage.Image
	opts attVerifyOpts
}

// NewAttVerifier returns an AttVerifier for im, according to opts. At least
// one verifier must be supplied via OptAttVerifyWithVerifier.
func NewAttVerifier(im *appimage.Image, opts ...AttVerifierOpt) (*AttVerifier, error) {
	if im == nil {
		return nil, fmt.Errorf("integrity: %w", errNilImage)
	}

	vo := attVerifyOpts{
		ctx: context.Background(),
	}

	for _, opt := range opts {
		if err := opt(&vo); err != nil {
			return nil, fmt.Errorf("integrity: %w", err)
		}
	}

	if len(vo.vs) == 0 {
		return nil, fmt.Errorf("integrity: %w", ErrNoAttestationKey)
	}

	return &AttVerifier{im: im, opts: vo}, nil
}

// Verify verifies the envelope signature of env, and verifies the attested
// digest against the canonical payload of the image.
func (av *AttVerifier) Verify(env []byte) error {
	v := dsse.WrapMultiVerifier(digestMediaType, 1, av.opts.vs...)

	if err := v.VerifySignature(bytes.NewReader(env), nil, options.WithContext(av.opts.ctx)); err != nil {
		return fmt.Errorf("integrity: %w", err)
	}

	var e ssldsse.Envelope
	if err := json.Unmarshal(env, &e); err != nil {
		return fmt.Errorf("integrity: %w", err)
	}

	if e.PayloadType != digestMediaType {
		return fmt.Errorf("integrity: %w", errUnexpectedPayloadType)
	}

	body, err := base64.StdEncoding.DecodeString(e.Payload)
	if err != nil {
		return fmt.Errorf("integrity: %w", err)
	}

	var m digestManifest
	if err := json.Unmarshal(body, &m); err != nil {
		return fmt.Errorf("integrity: %w", err)
	}

	if err := m.Digest.matches(bytes.NewReader(av.im.Payload())); err != nil {
		return fmt.Errorf("integrity: %w", err)
	}

	return nil
}
