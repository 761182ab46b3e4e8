// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package integrity

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyPassphrase is the error returned when a supplied passphrase is
// empty or consists only of whitespace.
var ErrEmptyPassphrase = errors.New("passphrase must not be empty")

// errPassphraseDestroyed is returned when a destroyed passphrase is used.
var errPassphraseDestroyed = errors.New("passphrase already destroyed")

// Passphrase holds key-unlocking material for a single use. Once consumed or
// destroyed, its bytes are overwritten in memory and it cannot be reused.
type Passphrase struct {
	mu        sync.Mutex
	buf       []byte
	destroyed bool
}

// NewPassphrase returns a Passphrase holding a copy of s. If s is empty, or
// contains only whitespace, an error wrapping ErrEmptyPassphrase is
// returned.
func NewPassphrase(s string) (*Passphrase, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyPassphrase
	}

	return &Passphrase{buf: []byte(s)}, nil
}

// use invokes fn with the passphrase bytes. The bytes must not be retained
// past the call.
func (p *Passphrase) use(fn func(b []byte) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return errPassphraseDestroyed
	}

	return fn(p.buf)
}

// Destroy overwrites the passphrase bytes. Destroy may be called multiple
// times.
func (p *Passphrase) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.buf {
		p.buf[i] = 0
	}
	p.buf = nil
	p.destroyed = true
}

// Destroyed returns true if the passphrase material has been wiped.
func (p *Passphrase) Destroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.destroyed
}
