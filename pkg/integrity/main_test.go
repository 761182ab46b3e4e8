// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
)

// Fingerprints and key IDs of the fixture keys under testdata/keys.
const (
	testKeyFingerprint = "fd4e2e4da75427c09fe94279cc590b0add8836b3"
	testKeyID          = uint64(0xCC590B0ADD8836B3)
	testKeyIdentity    = "AppImage Test Key <resign-test@example.org>"

	testEncryptedKeyFingerprint = "436568c15256d9cc86df625f26d0bdd3c66ce38b"
	testEncryptedKeyPassphrase  = "hunter2"
)

// fixedTime returns a fixed time, after the creation time of the fixture
// keys, to use in place of time.Now.
func fixedTime() time.Time {
	return time.Unix(1788082000, 0)
}

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()

	f, err := os.Open(filepath.Join("testdata", "keys", name))
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	return f
}

func getEntity(t *testing.T, name string) *openpgp.Entity {
	t.Helper()

	el, err := openpgp.ReadArmoredKeyRing(openFixture(t, name))
	if err != nil {
		t.Fatalf("failed to read fixture keyring: %v", err)
	}

	if got, want := len(el), 1; got != want {
		t.Fatalf("got %d entities, want %d", got, want)
	}

	return el[0]
}

// getTestEntity returns the unencrypted fixture signing entity.
func getTestEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	return getEntity(t, "private.asc")
}

// getTestEntityEncrypted returns the passphrase-protected fixture signing
// entity.
func getTestEntityEncrypted(t *testing.T) *openpgp.Entity {
	t.Helper()
	return getEntity(t, "private-encrypted.asc")
}

// getTestPublicEntity returns the public half of the fixture signing entity.
func getTestPublicEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	return getEntity(t, "public.asc")
}

// getTestImage returns a minimal ELF image carrying the AppImage Type 2
// marker, with payload appended after the header structures.
func getTestImage(t *testing.T, payload []byte) *appimage.Image {
	t.Helper()

	b := make([]byte, 0x80)
	copy(b, "\x7fELF")
	b[4] = 2 // ELFCLASS64
	b[5] = 1 // little-endian
	b[6] = 1 // EV_CURRENT
	copy(b[8:], "AI\x02")

	binary.LittleEndian.PutUint64(b[0x28:], 0x40) // e_shoff
	binary.LittleEndian.PutUint16(b[0x3a:], 64)   // e_shentsize
	binary.LittleEndian.PutUint16(b[0x3c:], 1)    // e_shnum

	im, err := appimage.NewImage(append(b, payload...))
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}

	return im
}

// getTestPassphrase returns a passphrase holding s.
func getTestPassphrase(t *testing.T, s string) *Passphrase {
	t.Helper()

	p, err := NewPassphrase(s)
	if err != nil {
		t.Fatalf("failed to create passphrase: %v", err)
	}

	return p
}
