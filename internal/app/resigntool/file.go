// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
)

// sidecarPath returns the conventional path of the detached signature file
// for the artifact at path.
func sidecarPath(path string) string {
	return path + ".asc"
}

// attestationPath returns the conventional path of the attestation envelope
// for the artifact at path.
func attestationPath(path string) string {
	return path + ".att.json"
}

// imageMode returns the file mode to write im with, preserving the mode of
// an existing file at path.
func imageMode(path string) os.FileMode {
	if fi, err := os.Stat(path); err == nil {
		return fi.Mode().Perm()
	}
	return 0o755
}

// writeImage writes im to path. The image is written to a uniquely named
// temporary file in the target directory first, and moved into place
// afterwards, so a failed write never leaves a truncated artifact behind.
func writeImage(im *appimage.Image, path string) error {
	tmp := filepath.Join(filepath.Dir(path), uuid.New().String())

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, imageMode(path))
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := im.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write image: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write image: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace image: %w", err)
	}

	return nil
}
