// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package integrity implements signing and verification of AppImage
// artifacts.
//
// # Signing
//
// To sign an image, create a Signer with the entity to sign with, and call
// Sign. Any existing signature is excluded from the signed bytes, so
// signing a previously signed artifact replaces its signature:
//
//	s, err := integrity.NewSigner(im, integrity.OptSignWithEntity(e))
//	if err != nil {
//		// ...
//	}
//	if _, err := s.Sign(); err != nil {
//		// ...
//	}
//
// # Verification
//
// To verify the signature embedded in an image, create a Verifier with a
// keyring holding the signer's public key, and call Verify:
//
//	v, err := integrity.NewVerifier(im, integrity.OptVerifyWithKeyRing(kr))
//	if err != nil {
//		// ...
//	}
//	if _, err := v.Verify(); err != nil {
//		// ...
//	}
//
// # Key Custody
//
// Keyring is an ephemeral key custodian. Keys imported into it exist only
// for the lifetime of the session, and signing keys are trusted ultimately,
// so re-signing an artifact never depends on the state of a user keyring.
package integrity
