// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// TrustLevel describes the trust placed in a key by the keyring custodian.
type TrustLevel uint8

const (
	// TrustUndefined indicates no trust has been recorded for the key.
	TrustUndefined TrustLevel = iota

	// TrustNever indicates the key is explicitly distrusted.
	TrustNever

	// TrustMarginal indicates partial trust in the key.
	TrustMarginal

	// TrustFull indicates full trust in the key.
	TrustFull

	// TrustUltimate indicates ultimate trust, as placed in keys imported by
	// the custodian itself.
	TrustUltimate
)

// String returns a human-readable representation of l.
func (l TrustLevel) String() string {
	switch l {
	case TrustNever:
		return "never"
	case TrustMarginal:
		return "marginal"
	case TrustFull:
		return "full"
	case TrustUltimate:
		return "ultimate"
	default:
		return "undefined"
	}
}

// Origin describes where the verified signature was found.
type Origin uint8

const (
	// OriginEmbedded indicates a signature embedded at the tail of the
	// artifact.
	OriginEmbedded Origin = iota

	// OriginDetached indicates a signature supplied separately from the
	// artifact.
	OriginDetached
)

// String returns a human-readable representation of o.
func (o Origin) String() string {
	if o == OriginDetached {
		return "detached"
	}
	return "embedded"
}

// VerifyResult describes the result of a signature verification.
type VerifyResult struct {
	valid  bool
	keyID  uint64
	fp     []byte
	e      *openpgp.Entity
	trust  TrustLevel
	t      time.Time
	origin Origin
	err    error
}

// Verified returns true if the signature was cryptographically verified
// against a known key.
func (r VerifyResult) Verified() bool {
	return r.valid
}

// KeyID returns the ID of the key that created the signature, if known.
func (r VerifyResult) KeyID() uint64 {
	return r.keyID
}

// KeyIDString returns the ID of the key that created the signature as an
// upper-case hexadecimal string.
func (r VerifyResult) KeyIDString() string {
	return fmt.Sprintf("%016X", r.keyID)
}

// Fingerprint returns the hexadecimal fingerprint of the signing key, if
// known.
func (r VerifyResult) Fingerprint() string {
	return hex.EncodeToString(r.fp)
}

// Entity returns the entity that created the signature, if verification
// succeeded.
func (r VerifyResult) Entity() *openpgp.Entity {
	return r.e
}

// SignerIdentity returns the primary identity of the signer, if known.
func (r VerifyResult) SignerIdentity() string {
	if r.e == nil {
		return ""
	}
	if id := r.e.PrimaryIdentity(); id != nil {
		return id.Name
	}
	return ""
}

// Trust returns the trust level recorded for the signing key.
func (r VerifyResult) Trust() TrustLevel {
	return r.trust
}

// SignedAt returns the creation time of the signature, if known.
func (r VerifyResult) SignedAt() time.Time {
	return r.t
}

// Origin returns where the signature was found.
func (r VerifyResult) Origin() Origin {
	return r.origin
}

// Error returns the error encountered during verification, if any.
func (r VerifyResult) Error() error {
	return r.err
}
