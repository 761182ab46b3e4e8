// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"fmt"
	"os"

	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
)

// StripOptions contains the options when stripping a signature from an
// AppImage.
type StripOptions struct {
	// OutputPath is where the stripped artifact is written. Empty means the
	// artifact is replaced in place.
	OutputPath string

	// Sidecar removes the conventional sidecar signature file as well.
	Sidecar bool
}

// Strip removes any embedded signature from the AppImage at path, reducing
// it to its canonical payload. Stripping an unsigned artifact is not an
// error; the artifact is canonicalized either way.
func (a *App) Strip(path string, opts StripOptions) error {
	im, err := appimage.LoadImage(path)
	if err != nil {
		return err
	}

	removed := im.StripSignature()

	out := opts.OutputPath
	if out == "" {
		out = path
	}

	if err := writeImage(im, out); err != nil {
		return err
	}

	if opts.Sidecar {
		if err := os.Remove(sidecarPath(out)); err == nil {
			fmt.Fprintf(a.opts.out, "Signature file %v removed\n", sidecarPath(out))
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove signature file: %w", err)
		}
	}

	if removed {
		fmt.Fprintln(a.opts.out, "Signature removed")
	} else {
		fmt.Fprintln(a.opts.out, "No signature present")
	}

	return nil
}
