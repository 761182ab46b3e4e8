// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fixturePEM returns the path of a PEM key fixture.
func fixturePEM(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join("..", "..", "..", "test", "keys", name)
}

func TestAppAttestVerify(t *testing.T) {
	a, out, _ := newTestApp(t)

	path := writeTestImage(t, []byte("payload\n"))

	err := a.Attest(context.Background(), path, AttestOptions{
		KeyPath: fixturePEM(t, "ed25519-private.pem"),
	})
	if err != nil {
		t.Fatalf("failed to attest: %v", err)
	}

	if _, err := os.Stat(attestationPath(path)); err != nil {
		t.Fatalf("expected attestation envelope: %v", err)
	}

	// Re-signing the artifact does not invalidate the attestation, since
	// the attested digest covers the canonical payload.
	if err := a.Sign(path, SignOptions{KeyPath: fixtureKey(t, "private.asc"), Time: fixedTime}); err != nil {
		t.Fatal(err)
	}

	out.Reset()

	err = a.VerifyAttestation(context.Background(), path, VerifyAttestationOptions{
		KeyPath: fixturePEM(t, "ed25519-private.pem"),
	})
	if err != nil {
		t.Fatalf("failed to verify attestation: %v", err)
	}

	if !strings.Contains(out.String(), "Attestation verified") {
		t.Errorf("unexpected output: %q", out.String())
	}

	// A different key does not verify the envelope.
	err = a.VerifyAttestation(context.Background(), path, VerifyAttestationOptions{
		KeyPath: fixturePEM(t, "ecdsa-private.pem"),
	})
	if err == nil {
		t.Fatal("expected verification to fail with wrong key")
	}
}
