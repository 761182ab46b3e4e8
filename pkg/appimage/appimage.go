// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package appimage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Magic constants of the AppImage container format. An AppImage is an ELF
// executable carrying an update-information magic at offset 8, immediately
// after the ELF identification bytes.
const (
	elfMagic = "\x7fELF"

	aiMagicOffset = 8
	aiMagic0      = 0x41 // 'A'
	aiMagic1      = 0x49 // 'I'
)

// minImageSize is the smallest byte count that can hold the ELF
// identification block.
const minImageSize = 16

// Type describes the AppImage container type.
type Type uint8

const (
	// TypeUnknown is an ELF executable without an AppImage type marker.
	TypeUnknown Type = iota

	// Type1 is a legacy ISO 9660 based AppImage.
	Type1

	// Type2 is a squashfs based AppImage.
	Type2
)

// String returns a human-readable representation of t.
func (t Type) String() string {
	switch t {
	case Type1:
		return "AppImage Type 1"
	case Type2:
		return "AppImage Type 2"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidMagic is the error returned when the image does not begin
	// with the ELF magic bytes.
	ErrInvalidMagic = errors.New("invalid magic: not an ELF executable")

	errImageTooSmall = errors.New("image smaller than ELF header")
)

// Image holds the raw bytes of an AppImage artifact.
//
// The Image provides access to the canonical signed payload and the embedded
// signature block, if any. All byte framing is delegated to the codec (see
// Detect, Strip, Embed and Split).
type Image struct {
	data []byte
}

// NewImage returns an Image from the supplied bytes. The bytes must begin
// with the ELF magic; otherwise an error wrapping ErrInvalidMagic is
// returned.
func NewImage(b []byte) (*Image, error) {
	if len(b) < minImageSize {
		return nil, fmt.Errorf("appimage: %w", errImageTooSmall)
	}

	if !bytes.HasPrefix(b, []byte(elfMagic)) {
		return nil, fmt.Errorf("appimage: %w", ErrInvalidMagic)
	}

	return &Image{data: b}, nil
}

// NewImageFromReader reads an Image from r.
func NewImageFromReader(r io.Reader) (*Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("appimage: %w", err)
	}

	return NewImage(b)
}

// LoadImage loads an Image from the file at path.
func LoadImage(path string) (*Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("appimage: %w", err)
	}

	return NewImage(b)
}

// Bytes returns the raw image bytes. The returned slice must not be
// modified.
func (im *Image) Bytes() []byte {
	return im.data
}

// Size returns the size of the image, in bytes.
func (im *Image) Size() int64 {
	return int64(len(im.data))
}

// WriteTo writes the raw image bytes to w.
func (im *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(im.data)
	return int64(n), err
}

// Type returns the AppImage container type, based on the update-information
// magic at offset 8.
func (im *Image) Type() Type {
	if len(im.data) < aiMagicOffset+3 {
		return TypeUnknown
	}

	if im.data[aiMagicOffset] != aiMagic0 || im.data[aiMagicOffset+1] != aiMagic1 {
		return TypeUnknown
	}

	switch im.data[aiMagicOffset+2] {
	case 0x01:
		return Type1
	case 0x02:
		return Type2
	default:
		return TypeUnknown
	}
}

// Signature returns the embedded signature block, if any. If no signature is
// present, an error wrapping ErrNoSignature is returned.
func (im *Image) Signature() (SignatureBlock, error) {
	return Detect(im.data)
}

// Payload returns the canonical signed payload of the image: the raw bytes
// with any terminal signature block and separator bytes removed.
func (im *Image) Payload() []byte {
	return Strip(im.data)
}

// Split returns the exact payload and signature block pair of the image,
// for verification. See the Split codec function for the framing rules.
func (im *Image) Split() ([]byte, SignatureBlock, error) {
	return Split(im.data)
}

// Embed replaces any embedded signature with b, framing the result with
// exactly one line-feed between the canonical payload and the armored block.
func (im *Image) Embed(b SignatureBlock) {
	im.data = Embed(im.data, b)
}

// StripSignature removes any embedded signature block, leaving the canonical
// payload. It reports whether a block was removed.
func (im *Image) StripSignature() bool {
	_, err := Detect(im.data)
	im.data = Strip(im.data)
	return err == nil
}

// elfEnd returns the end offset of the ELF structures in the image: the
// greater of the end of the section header table and the end of the program
// header table. For a Type 2 AppImage this is where the squashfs payload
// filesystem begins.
func (im *Image) elfEnd() (int64, error) {
	if len(im.data) < 0x40 {
		return 0, fmt.Errorf("appimage: %w", errImageTooSmall)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if im.data[5] == 2 { // EI_DATA: big-endian
		order = binary.BigEndian
	}

	var shEnd, phEnd int64
	switch im.data[4] { // EI_CLASS
	case 1: // ELFCLASS32
		shOff := int64(order.Uint32(im.data[0x20:]))
		shEntSize := int64(order.Uint16(im.data[0x2e:]))
		shNum := int64(order.Uint16(im.data[0x30:]))
		shEnd = shOff + shEntSize*shNum

		phOff := int64(order.Uint32(im.data[0x1c:]))
		phEntSize := int64(order.Uint16(im.data[0x2a:]))
		phNum := int64(order.Uint16(im.data[0x2c:]))
		phEnd = phOff + phEntSize*phNum
	case 2: // ELFCLASS64
		shOff := int64(order.Uint64(im.data[0x28:]))
		shEntSize := int64(order.Uint16(im.data[0x3a:]))
		shNum := int64(order.Uint16(im.data[0x3c:]))
		shEnd = shOff + shEntSize*shNum

		phOff := int64(order.Uint64(im.data[0x20:]))
		phEntSize := int64(order.Uint16(im.data[0x36:]))
		phNum := int64(order.Uint16(im.data[0x38:]))
		phEnd = phOff + phEntSize*phNum
	default:
		return 0, fmt.Errorf("appimage: %w", ErrInvalidMagic)
	}

	if phEnd > shEnd {
		return phEnd, nil
	}
	return shEnd, nil
}

// PayloadOffset returns the offset of the payload filesystem within the
// image, computed from the ELF section and program header tables.
func (im *Image) PayloadOffset() (int64, error) {
	off, err := im.elfEnd()
	if err != nil {
		return 0, err
	}

	if off <= 0 || off > int64(len(im.data)) {
		return 0, fmt.Errorf("appimage: payload offset %d out of range", off)
	}

	return off, nil
}
