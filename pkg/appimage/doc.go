// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package appimage provides access to AppImage artifacts and the byte-level
// codec for embedded detached PGP signatures.
//
// An AppImage is an ELF executable. A signed AppImage carries an
// ASCII-armored detached PGP signature at its tail, separated from the
// signed payload by a single line-feed. This package locates, removes and
// embeds such signature blocks without interpreting their cryptographic
// content; signing and verification are provided by package integrity.
package appimage
