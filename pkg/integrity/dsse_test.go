// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"crypto"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	ssldsse "github.com/secure-systems-lab/go-securesystemslib/dsse"
	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"github.com/sigstore/sigstore/pkg/signature"
)

func getTestSigner(t *testing.T, name string) signature.Signer {
	t.Helper()

	path := filepath.Join("..", "..", "test", "keys", name)

	s, err := signature.LoadSignerFromPEMFile(path, crypto.SHA256, cryptoutils.SkipPassword)
	if err != nil {
		t.Fatalf("failed to load signer: %v", err)
	}

	return s
}

func getTestVerifier(t *testing.T, name string) signature.Verifier {
	t.Helper()

	path := filepath.Join("..", "..", "test", "keys", name)

	sv, err := signature.LoadSignerVerifierFromPEMFile(path, crypto.SHA256, cryptoutils.SkipPassword)
	if err != nil {
		t.Fatalf("failed to load verifier: %v", err)
	}

	return sv
}

func TestNewAttester(t *testing.T) {
	im := getTestImage(t, []byte("payload\n"))

	if _, err := NewAttester(nil, OptAttestWithSigner(getTestSigner(t, "ed25519-private.pem"))); !errors.Is(err, errNilImage) {
		t.Fatalf("got error %v, want %v", err, errNilImage)
	}

	if _, err := NewAttester(im); !errors.Is(err, ErrNoAttestationKey) {
		t.Fatalf("got error %v, want %v", err, ErrNoAttestationKey)
	}
}

func TestAttesterAttest(t *testing.T) {
	im := getTestImage(t, []byte("payload\n"))

	a, err := NewAttester(im,
		OptAttestWithSigner(getTestSigner(t, "ed25519-private.pem")),
		OptAttestWithName("app.AppImage"),
	)
	if err != nil {
		t.Fatalf("failed to create attester: %v", err)
	}

	env, err := a.Attest()
	if err != nil {
		t.Fatalf("failed to attest: %v", err)
	}

	var e ssldsse.Envelope
	if err := json.Unmarshal(env, &e); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}

	if got, want := e.PayloadType, digestMediaType; got != want {
		t.Errorf("got payload type %v, want %v", got, want)
	}

	if got, want := len(e.Signatures), 1; got != want {
		t.Errorf("got %d signatures, want %d", got, want)
	}
}

func TestAttVerifierVerify(t *testing.T) {
	im := getTestImage(t, []byte("payload\n"))

	a, err := NewAttester(im, OptAttestWithSigner(getTestSigner(t, "ed25519-private.pem")))
	if err != nil {
		t.Fatalf("failed to create attester: %v", err)
	}

	env, err := a.Attest()
	if err != nil {
		t.Fatalf("failed to attest: %v", err)
	}

	// Embedding a PGP signature leaves the canonical payload unchanged, so
	// the attestation still verifies afterwards.
	signTestImage(t, im)

	av, err := NewAttVerifier(im, OptAttVerifyWithVerifier(getTestVerifier(t, "ed25519-private.pem")))
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	if err := av.Verify(env); err != nil {
		t.Fatalf("failed to verify attestation: %v", err)
	}

	// A different artifact does not match the attested digest.
	other := getTestImage(t, []byte("other payload\n"))

	ov, err := NewAttVerifier(other, OptAttVerifyWithVerifier(getTestVerifier(t, "ed25519-private.pem")))
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	if err := ov.Verify(env); !errors.Is(err, errDigestDoesNotMatch) {
		t.Fatalf("got error %v, want %v", err, errDigestDoesNotMatch)
	}

	// A verifier holding a different key rejects the envelope.
	wv, err := NewAttVerifier(im, OptAttVerifyWithVerifier(getTestVerifier(t, "ecdsa-private.pem")))
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	if err := wv.Verify(env); err == nil {
		t.Fatal("expected verification to fail with wrong key")
	}
}
