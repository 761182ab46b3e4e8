// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"bytes"
	"crypto"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	errDigestMalformed       = errors.New("digest malformed")
	errDigestUnsupportedHash = errors.New("unsupported digest algorithm")
	errDigestDoesNotMatch    = errors.New("digest does not match")
)

// hashes maps supported digest algorithms to their JSON names.
var hashes = map[crypto.Hash]string{
	crypto.SHA224: "sha224",
	crypto.SHA256: "sha256",
	crypto.SHA384: "sha384",
	crypto.SHA512: "sha512",
}

// hashValue returns the digest of the contents read from r, as calculated by h.
func hashValue(h crypto.Hash, r io.Reader) ([]byte, error) {
	w := h.New()

	if _, err := io.Copy(w, r); err != nil {
		return nil, err
	}

	return w.Sum(nil), nil
}

type digest struct {
	hash  crypto.Hash
	value []byte
}

// newDigest returns a digest of the contents of r, as calculated by h.
func newDigest(h crypto.Hash, r io.Reader) (digest, error) {
	if _, ok := hashes[h]; !ok {
		return digest{}, errDigestUnsupportedHash
	}

	value, err := hashValue(h, r)
	if err != nil {
		return digest{}, err
	}

	return digest{hash: h, value: value}, nil
}

// matches verifies the contents of r match the digest.
func (d digest) matches(r io.Reader) error {
	value, err := hashValue(d.hash, r)
	if err != nil {
		return err
	}

	if !bytes.Equal(d.value, value) {
		return errDigestDoesNotMatch
	}

	return nil
}

// MarshalJSON marshals d into the string "alg:value".
func (d digest) MarshalJSON() ([]byte, error) {
	name, ok := hashes[d.hash]
	if !ok {
		return nil, errDigestUnsupportedHash
	}

	return json.Marshal(fmt.Sprintf("%s:%x", name, d.value))
}

// UnmarshalJSON unmarshals a digest of the form "alg:value" from b.
func (d *digest) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return errDigestMalformed
	}

	v, err := hex.DecodeString(value)
	if err != nil {
		return errDigestMalformed
	}

	for h, n := range hashes {
		if n == name {
			if len(v) != h.Size() {
				return errDigestMalformed
			}

			d.hash = h
			d.value = v
			return nil
		}
	}

	return errDigestUnsupportedHash
}
