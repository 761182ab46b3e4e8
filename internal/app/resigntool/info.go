// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/integrity"
)

// Info writes a description of the AppImage at path: its container type,
// size, canonical payload size, and whatever its signature block claims
// about itself. No cryptographic verification is performed.
func (a *App) Info(path string) error {
	im, err := appimage.LoadImage(path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.opts.out, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "Type:\t%v\n", im.Type())
	fmt.Fprintf(tw, "Size:\t%d\n", im.Size())
	fmt.Fprintf(tw, "Payload size:\t%d\n", len(im.Payload()))

	_, err = im.Signature()
	switch {
	case errors.Is(err, appimage.ErrNoSignature):
		fmt.Fprintf(tw, "Signature:\tnone\n")
		return nil
	case err != nil:
		fmt.Fprintf(tw, "Signature:\tmalformed (%v)\n", err)
		return nil
	}

	fmt.Fprintf(tw, "Signature:\tembedded\n")

	// A verifier without a keyring cannot validate, but its result still
	// carries what the signature packet claims.
	v, err := integrity.NewVerifier(im)
	if err != nil {
		return err
	}

	r, _ := v.Verify()

	if r.KeyID() != 0 {
		fmt.Fprintf(tw, "Signature key ID:\t%v\n", r.KeyIDString())
	}
	if fp := r.Fingerprint(); fp != "" {
		fmt.Fprintf(tw, "Signature fingerprint:\t%v\n", fp)
	}
	if !r.SignedAt().IsZero() {
		fmt.Fprintf(tw, "Signed at:\t%v\n", r.SignedAt().UTC())
	}

	return nil
}
