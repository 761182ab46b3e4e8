// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package appimage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// testELF returns a minimal 64-bit little-endian ELF image of the supplied
// AppImage type, with a section header table ending at offset 0x80 followed
// by payload bytes.
func testELF(t *testing.T, aiType byte, payload []byte) []byte {
	t.Helper()

	b := make([]byte, 0x80)
	copy(b, elfMagic)
	b[4] = 2 // ELFCLASS64
	b[5] = 1 // little-endian
	b[6] = 1 // EV_CURRENT

	if aiType != 0 {
		b[aiMagicOffset] = aiMagic0
		b[aiMagicOffset+1] = aiMagic1
		b[aiMagicOffset+2] = aiType
	}

	binary.LittleEndian.PutUint64(b[0x28:], 0x40) // e_shoff
	binary.LittleEndian.PutUint16(b[0x3a:], 64)   // e_shentsize
	binary.LittleEndian.PutUint16(b[0x3c:], 1)    // e_shnum

	return append(b, payload...)
}

func TestNewImage(t *testing.T) {
	tests := []struct {
		name    string
		b       []byte
		wantErr error
	}{
		{
			name: "OK",
			b:    testELF(t, 0x02, []byte("payload")),
		},
		{
			name:    "Empty",
			b:       []byte{},
			wantErr: errImageTooSmall,
		},
		{
			name:    "TooSmall",
			b:       []byte(elfMagic),
			wantErr: errImageTooSmall,
		},
		{
			name:    "NotELF",
			b:       bytes.Repeat([]byte("#!"), 32),
			wantErr: ErrInvalidMagic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, err := NewImage(tt.b)

			if got, want := err, tt.wantErr; !errors.Is(got, want) {
				t.Fatalf("got error %v, want %v", got, want)
			}

			if err == nil {
				if got, want := im.Size(), int64(len(tt.b)); got != want {
					t.Errorf("got size %d, want %d", got, want)
				}
			}
		})
	}
}

func TestImageType(t *testing.T) {
	tests := []struct {
		name   string
		aiType byte
		want   Type
	}{
		{
			name:   "Type1",
			aiType: 0x01,
			want:   Type1,
		},
		{
			name:   "Type2",
			aiType: 0x02,
			want:   Type2,
		},
		{
			name:   "NoMarker",
			aiType: 0x00,
			want:   TypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, err := NewImage(testELF(t, tt.aiType, nil))
			if err != nil {
				t.Fatal(err)
			}

			if got, want := im.Type(), tt.want; got != want {
				t.Errorf("got type %v, want %v", got, want)
			}
		})
	}
}

func TestImagePayloadOffset(t *testing.T) {
	im, err := NewImage(testELF(t, 0x02, []byte("squashfs goes here")))
	if err != nil {
		t.Fatal(err)
	}

	off, err := im.PayloadOffset()
	if err != nil {
		t.Fatal(err)
	}

	if got, want := off, int64(0x80); got != want {
		t.Errorf("got offset %d, want %d", got, want)
	}

	if got, want := string(im.Bytes()[off:]), "squashfs goes here"; got != want {
		t.Errorf("got payload %q, want %q", got, want)
	}
}

func TestImageSignature(t *testing.T) {
	sb := testBlock(t)

	unsigned := testELF(t, 0x02, []byte("payload\n"))

	im, err := NewImage(unsigned)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := im.Signature(); !errors.Is(err, ErrNoSignature) {
		t.Fatalf("got error %v, want %v", err, ErrNoSignature)
	}

	im.Embed(sb)

	got, err := im.Signature()
	if err != nil {
		t.Fatalf("failed to get signature: %v", err)
	}

	if got, want := got.String(), sb.String(); got != want {
		t.Errorf("got block %q, want %q", got, want)
	}

	if got, want := im.Payload(), Strip(unsigned); !bytes.Equal(got, want) {
		t.Errorf("got payload %q, want %q", got, want)
	}

	if !im.StripSignature() {
		t.Error("expected signature to be removed")
	}

	if got, want := im.Bytes(), Strip(unsigned); !bytes.Equal(got, want) {
		t.Errorf("got bytes %q, want %q", got, want)
	}

	if im.StripSignature() {
		t.Error("unexpected signature removal")
	}
}
