// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"errors"
	"testing"

	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
)

// signTestImage signs im with the fixture key and returns the signature
// block.
func signTestImage(t *testing.T, im *appimage.Image, opts ...SignerOpt) appimage.SignatureBlock {
	t.Helper()

	opts = append([]SignerOpt{
		OptSignWithEntity(getTestEntity(t)),
		OptSignWithTime(fixedTime),
	}, opts...)

	s, err := NewSigner(im, opts...)
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	sb, err := s.Sign()
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	return sb
}

// getTestKeyring returns a keyring holding the public half of the fixture
// key, imported ephemerally so it carries ultimate trust.
func getTestKeyring(t *testing.T) *Keyring {
	t.Helper()

	kr := NewKeyring()
	if _, err := kr.ImportEphemeral(openFixture(t, "private.asc")); err != nil {
		t.Fatalf("failed to import key: %v", err)
	}

	return kr
}

func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier(nil); !errors.Is(err, errNilImage) {
		t.Fatalf("got error %v, want %v", err, errNilImage)
	}
}

func TestVerifierVerify(t *testing.T) {
	im := getTestImage(t, []byte("payload\n"))
	signTestImage(t, im)

	vr, err := NewVerifier(im, OptVerifyWithKeyRing(getTestKeyring(t)))
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	r, err := vr.Verify()
	if err != nil {
		t.Fatalf("failed to verify: %v", err)
	}

	if !r.Verified() {
		t.Error("expected signature to be verified")
	}

	if got, want := r.KeyID(), testKeyID; got != want {
		t.Errorf("got key ID %016X, want %016X", got, want)
	}

	if got, want := r.Fingerprint(), testKeyFingerprint; got != want {
		t.Errorf("got fingerprint %v, want %v", got, want)
	}

	if got, want := r.SignerIdentity(), testKeyIdentity; got != want {
		t.Errorf("got identity %v, want %v", got, want)
	}

	if got, want := r.Trust(), TrustUltimate; got != want {
		t.Errorf("got trust %v, want %v", got, want)
	}

	if got, want := r.SignedAt(), fixedTime(); !got.Equal(want) {
		t.Errorf("got signature time %v, want %v", got, want)
	}

	if got, want := r.Origin(), OriginEmbedded; got != want {
		t.Errorf("got origin %v, want %v", got, want)
	}
}

func TestVerifierVerifyErrors(t *testing.T) {
	signed := getTestImage(t, []byte("payload\n"))
	sb := signTestImage(t, signed)

	// An artifact framed with two separator bytes, as written by the
	// historical embedding bug.
	buggy := append([]byte(nil), signed.Payload()...)
	buggy = append(buggy, '\n', '\n')
	buggy = append(buggy, sb.Armored()...)

	// An artifact whose payload was modified after signing.
	tampered := append([]byte(nil), signed.Bytes()...)
	tampered[0x40] ^= 0xff

	tests := []struct {
		name    string
		data    []byte
		kr      *Keyring
		wantErr error
	}{
		{
			name:    "NoSignature",
			data:    getTestImage(t, []byte("payload\n")).Bytes(),
			kr:      getTestKeyring(t),
			wantErr: appimage.ErrNoSignature,
		},
		{
			name:    "NoKeyring",
			data:    signed.Bytes(),
			wantErr: &UnknownSignerError{KeyID: testKeyID},
		},
		{
			name:    "UnknownSigner",
			data:    signed.Bytes(),
			kr:      getTestEncryptedKeyring(t),
			wantErr: &UnknownSignerError{KeyID: testKeyID},
		},
		{
			name:    "TwoSeparators",
			data:    buggy,
			kr:      getTestKeyring(t),
			wantErr: &SignatureNotValidError{},
		},
		{
			name:    "Tampered",
			data:    tampered,
			kr:      getTestKeyring(t),
			wantErr: &SignatureNotValidError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, err := appimage.NewImage(tt.data)
			if err != nil {
				t.Fatal(err)
			}

			opts := []VerifierOpt{OptVerifyWithTime(fixedTime)}
			if tt.kr != nil {
				opts = append(opts, OptVerifyWithKeyRing(tt.kr))
			}

			vr, err := NewVerifier(im, opts...)
			if err != nil {
				t.Fatalf("failed to create verifier: %v", err)
			}

			r, err := vr.Verify()

			if got, want := err, tt.wantErr; !errors.Is(got, want) {
				t.Fatalf("got error %v, want %v", got, want)
			}

			if r.Verified() {
				t.Error("unexpected verified result")
			}

			if got, want := r.Error(), err; !errors.Is(got, want) {
				t.Errorf("got result error %v, want %v", got, want)
			}
		})
	}
}

// getTestEncryptedKeyring returns a keyring holding only the public half of
// the passphrase-protected fixture key.
func getTestEncryptedKeyring(t *testing.T) *Keyring {
	t.Helper()

	kr := NewKeyring()
	if _, err := kr.ImportPublic(openFixture(t, "public-encrypted.asc")); err != nil {
		t.Fatalf("failed to import key: %v", err)
	}

	return kr
}

func TestVerifierVerifyDetached(t *testing.T) {
	embedded := getTestImage(t, []byte("payload\n"))
	signTestImage(t, embedded)

	detached := getTestImage(t, []byte("payload\n"))
	sb := signTestImage(t, detached, OptSignDetached())

	ev, err := NewVerifier(embedded, OptVerifyWithKeyRing(getTestKeyring(t)))
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	er, err := ev.Verify()
	if err != nil {
		t.Fatalf("failed to verify embedded: %v", err)
	}

	dv, err := NewVerifier(detached,
		OptVerifyWithKeyRing(getTestKeyring(t)),
		OptVerifyDetached(sb.Armored()),
	)
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	dr, err := dv.Verify()
	if err != nil {
		t.Fatalf("failed to verify detached: %v", err)
	}

	// Both paths reconstruct the same payload, so the results agree apart
	// from the recorded origin.
	if !er.Verified() || !dr.Verified() {
		t.Error("expected both signatures to be verified")
	}

	if got, want := dr.KeyID(), er.KeyID(); got != want {
		t.Errorf("got key ID %016X, want %016X", got, want)
	}

	if got, want := dr.Fingerprint(), er.Fingerprint(); got != want {
		t.Errorf("got fingerprint %v, want %v", got, want)
	}

	if got, want := dr.Origin(), OriginDetached; got != want {
		t.Errorf("got origin %v, want %v", got, want)
	}
}
