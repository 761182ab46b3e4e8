// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/google/uuid"
)

var (
	// ErrNoPrivateKey is the error returned when key material imported for
	// signing contains no private key.
	ErrNoPrivateKey = errors.New("key material contains no private key")

	// ErrKeyNotFound is the error returned when no key in the keyring
	// matches the supplied ID or fingerprint.
	ErrKeyNotFound = errors.New("key not found")

	errNoKeyMaterialRead = errors.New("no key material read")
)

// Keyring is an ephemeral key custodian. It holds entities imported for the
// lifetime of a signing or verification session, along with the trust level
// placed in each key. Keys imported with private material are trusted
// ultimately, matching the behavior of a dedicated signing keyring.
//
// Keyring implements openpgp.KeyRing, and is safe for concurrent use.
type Keyring struct {
	id uuid.UUID

	mu    sync.RWMutex
	el    openpgp.EntityList
	trust map[string]TrustLevel
}

// NewKeyring returns an empty ephemeral Keyring.
func NewKeyring() *Keyring {
	return &Keyring{
		id:    uuid.New(),
		trust: make(map[string]TrustLevel),
	}
}

// ID returns the unique identifier of the keyring session.
func (kr *Keyring) ID() string {
	return kr.id.String()
}

// readEntities reads an armored or binary OpenPGP key block from r.
func readEntities(r io.Reader) (openpgp.EntityList, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(b) == 0 {
		return nil, errNoKeyMaterialRead
	}

	el, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(b))
	if err != nil {
		el, err = openpgp.ReadKeyRing(bytes.NewReader(b))
	}
	return el, err
}

// ImportEphemeral imports signing key material from r into the keyring. The
// material may be armored or binary, and must contain at least one private
// key; otherwise an error wrapping ErrNoPrivateKey is returned. Imported
// keys are trusted ultimately.
//
// The first entity carrying a private key is returned.
func (kr *Keyring) ImportEphemeral(r io.Reader) (*openpgp.Entity, error) {
	el, err := readEntities(r)
	if err != nil {
		return nil, fmt.Errorf("integrity: %w", err)
	}

	var signer *openpgp.Entity
	for _, e := range el {
		if e.PrivateKey != nil && signer == nil {
			signer = e
		}
	}
	if signer == nil {
		return nil, fmt.Errorf("integrity: %w", ErrNoPrivateKey)
	}

	kr.mu.Lock()
	defer kr.mu.Unlock()

	for _, e := range el {
		kr.el = append(kr.el, e)
		kr.trust[fingerprintOf(e)] = TrustUltimate
	}

	return signer, nil
}

// ImportPublic imports public key material from r into the keyring for
// verification. Imported keys carry undefined trust until SetTrust is
// called.
func (kr *Keyring) ImportPublic(r io.Reader) ([]*openpgp.Entity, error) {
	el, err := readEntities(r)
	if err != nil {
		return nil, fmt.Errorf("integrity: %w", err)
	}

	kr.mu.Lock()
	defer kr.mu.Unlock()

	for _, e := range el {
		kr.el = append(kr.el, e)
		if _, ok := kr.trust[fingerprintOf(e)]; !ok {
			kr.trust[fingerprintOf(e)] = TrustUndefined
		}
	}

	return el, nil
}

// Revoke removes the key matching query from the keyring and wipes its
// recorded trust. The query is matched as in Entity. If no key matches, an
// error wrapping ErrKeyNotFound is returned.
func (kr *Keyring) Revoke(query string) error {
	kr.mu.Lock()
	defer kr.mu.Unlock()

	for i, e := range kr.el {
		if entityMatches(e, query) {
			delete(kr.trust, fingerprintOf(e))
			kr.el = append(kr.el[:i], kr.el[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("integrity: %w", ErrKeyNotFound)
}

// SetTrust records trust level l for the key matching query.
func (kr *Keyring) SetTrust(query string, l TrustLevel) error {
	kr.mu.Lock()
	defer kr.mu.Unlock()

	for _, e := range kr.el {
		if entityMatches(e, query) {
			kr.trust[fingerprintOf(e)] = l
			return nil
		}
	}

	return fmt.Errorf("integrity: %w", ErrKeyNotFound)
}

// Entity returns the entity matching query. The query is hexadecimal, and
// matches case-insensitively against the suffix of the key fingerprint, so
// short key IDs, long key IDs and full fingerprints are all accepted.
func (kr *Keyring) Entity(query string) (*openpgp.Entity, error) {
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	for _, e := range kr.el {
		if entityMatches(e, query) {
			return e, nil
		}
	}

	return nil, fmt.Errorf("integrity: %w", ErrKeyNotFound)
}

// Entities returns all entities held by the keyring.
func (kr *Keyring) Entities() []*openpgp.Entity {
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	return append([]*openpgp.Entity(nil), kr.el...)
}

// Trust returns the trust level recorded for the key with the supplied
// binary fingerprint.
func (kr *Keyring) Trust(fp []byte) TrustLevel {
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	return kr.trust[strings.ToUpper(fmt.Sprintf("%x", fp))]
}

// KeysById implements openpgp.KeyRing.
func (kr *Keyring) KeysById(id uint64) []openpgp.Key { //nolint:revive
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	return kr.el.KeysById(id)
}

// KeysByIdUsage implements openpgp.KeyRing.
func (kr *Keyring) KeysByIdUsage(id uint64, requiredUsage byte) []openpgp.Key { //nolint:revive
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	return kr.el.KeysByIdUsage(id, requiredUsage)
}

// DecryptionKeys implements openpgp.KeyRing.
func (kr *Keyring) DecryptionKeys() []openpgp.Key {
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	return kr.el.DecryptionKeys()
}

// fingerprintOf returns the upper-case hexadecimal primary key fingerprint
// of e.
func fingerprintOf(e *openpgp.Entity) string {
	return strings.ToUpper(fmt.Sprintf("%x", e.PrimaryKey.Fingerprint))
}

// entityMatches reports whether the hexadecimal query matches the suffix of
// the primary key fingerprint of e. Queries shorter than eight hexadecimal
// digits never match.
func entityMatches(e *openpgp.Entity, query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	q = strings.TrimPrefix(q, "0X")

	if len(q) < 8 {
		return false
	}

	return strings.HasSuffix(fingerprintOf(e), q)
}
