// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package appimage

import (
	"bytes"
	"errors"
	"fmt"
)

// ASCII armor markers delimiting an embedded detached signature.
const (
	// BeginMarker opens an ASCII-armored PGP signature block.
	BeginMarker = "-----BEGIN PGP SIGNATURE-----"

	// EndMarker closes an ASCII-armored PGP signature block.
	EndMarker = "-----END PGP SIGNATURE-----"
)

// separator is the single byte inserted between the canonical payload and an
// embedded signature block.
const separator = '\n'

// separatorBytes are the bytes trimmed from the tail of a payload when
// canonicalizing it. A signer may have terminated the artifact with any run
// of these before the signature block was appended.
const separatorBytes = "\n\r \t"

// ErrNoSignature is the error returned when an image contains no embedded
// signature block.
var ErrNoSignature = errors.New("no signature found")

// MalformedSignatureError records an embedded signature block that could not
// be decoded.
type MalformedSignatureError struct {
	Err error
}

// Error returns a human-readable representation of e.
func (e *MalformedSignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed signature: %v", e.Err)
	}
	return "malformed signature"
}

// Unwrap returns the error wrapped by e.
func (e *MalformedSignatureError) Unwrap() error {
	return e.Err
}

// Is compares e against target. If target is a MalformedSignatureError with
// no wrapped error, the comparison always succeeds.
func (e *MalformedSignatureError) Is(target error) bool {
	t, ok := target.(*MalformedSignatureError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}

var (
	errTruncatedBlock   = errors.New("signature block not terminated")
	errTrailingData     = errors.New("data after signature block")
	errEmptyBlock       = errors.New("empty signature block")
	errMissingSeparator = errors.New("no separator before signature block")
)

// SignatureBlock is an ASCII-armored detached PGP signature, normalized to
// line-feed line endings and terminated with a single line-feed.
type SignatureBlock struct {
	armored []byte
}

// NewSignatureBlock validates and normalizes b into a SignatureBlock. The
// bytes must contain exactly one armor block, with nothing but whitespace
// outside it. Carriage-return line endings are normalized to line-feeds.
func NewSignatureBlock(b []byte) (SignatureBlock, error) {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.TrimRight(b, separatorBytes)

	if len(b) == 0 {
		return SignatureBlock{}, &MalformedSignatureError{Err: errEmptyBlock}
	}

	begin := bytes.Index(b, []byte(BeginMarker))
	if begin < 0 || len(bytes.TrimLeft(b[:begin], separatorBytes)) != 0 {
		return SignatureBlock{}, &MalformedSignatureError{Err: errEmptyBlock}
	}
	b = b[begin:]

	end := bytes.Index(b, []byte(EndMarker))
	if end < 0 {
		return SignatureBlock{}, &MalformedSignatureError{Err: errTruncatedBlock}
	}

	tail := b[end+len(EndMarker):]
	if len(bytes.TrimLeft(tail, separatorBytes)) != 0 {
		return SignatureBlock{}, &MalformedSignatureError{Err: errTrailingData}
	}

	armored := make([]byte, 0, end+len(EndMarker)+1)
	armored = append(armored, b[:end+len(EndMarker)]...)
	armored = append(armored, separator)

	return SignatureBlock{armored: armored}, nil
}

// Armored returns the normalized armored bytes of sb, including the trailing
// line-feed. The returned slice must not be modified.
func (sb SignatureBlock) Armored() []byte {
	return sb.armored
}

// String returns the armored text of sb.
func (sb SignatureBlock) String() string {
	return string(sb.armored)
}

// terminalBlock locates a valid file-terminal signature block within data.
// It returns the offset of the last BeginMarker and the decoded block. The
// block is terminal when its EndMarker is followed by nothing but separator
// bytes.
func terminalBlock(data []byte) (int, SignatureBlock, error) {
	begin := bytes.LastIndex(data, []byte(BeginMarker))
	if begin < 0 {
		return 0, SignatureBlock{}, ErrNoSignature
	}

	rest := data[begin:]

	end := bytes.Index(rest, []byte(EndMarker))
	if end < 0 {
		return 0, SignatureBlock{}, &MalformedSignatureError{Err: errTruncatedBlock}
	}

	tail := rest[end+len(EndMarker):]
	if len(bytes.TrimLeft(tail, separatorBytes)) != 0 {
		return 0, SignatureBlock{}, &MalformedSignatureError{Err: errTrailingData}
	}

	sb, err := NewSignatureBlock(rest)
	if err != nil {
		return 0, SignatureBlock{}, err
	}

	return begin, sb, nil
}

// Detect returns the signature block embedded at the tail of data. If data
// contains no BeginMarker, an error wrapping ErrNoSignature is returned. If
// the final block is not properly terminated, or is followed by anything
// other than whitespace, a MalformedSignatureError is returned.
func Detect(data []byte) (SignatureBlock, error) {
	_, sb, err := terminalBlock(data)
	return sb, err
}

// Strip returns the canonical payload of data: the bytes with any valid
// file-terminal signature block removed, and all trailing separator bytes
// trimmed. Strip is idempotent, and canonicalizes unsigned data as well.
func Strip(data []byte) []byte {
	begin, _, err := terminalBlock(data)
	if err != nil {
		return bytes.TrimRight(data, separatorBytes)
	}

	return bytes.TrimRight(data[:begin], separatorBytes)
}

// Embed returns data with sb embedded at its tail. Any existing signature
// block is removed first, and exactly one line-feed separates the canonical
// payload from the armored block.
func Embed(data []byte, sb SignatureBlock) []byte {
	payload := Strip(data)

	out := make([]byte, 0, len(payload)+1+len(sb.armored))
	out = append(out, payload...)
	out = append(out, separator)
	out = append(out, sb.armored...)
	return out
}

// Split returns the exact payload and signature block pair of data, for
// verification. Exactly one line-feed must separate the payload from the
// block; only that byte is removed. Artifacts framed with any other
// separator count reconstruct a payload different from the one that was
// signed, so their signatures do not verify.
func Split(data []byte) ([]byte, SignatureBlock, error) {
	begin, sb, err := terminalBlock(data)
	if err != nil {
		return nil, SignatureBlock{}, err
	}

	if begin == 0 || data[begin-1] != separator {
		return nil, SignatureBlock{}, &MalformedSignatureError{Err: errMissingSeparator}
	}

	return data[:begin-1], sb, nil
}
