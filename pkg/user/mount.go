// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package user provides mount and unmount of AppImage payload filesystems
// without elevated privileges.
package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/xXRoxXeRXx/appimage-resigner/pkg/appimage"
)

// mountSquashFS mounts the SquashFS filesystem from path at offset into mountPath.
func mountSquashFS(ctx context.Context, offset int64, path, mountPath string, mo mountOpts) error {
	args := []string{
		"-o", fmt.Sprintf("ro,offset=%d", offset),
		filepath.Clean(path),
		filepath.Clean(mountPath),
	}

	cmd := exec.CommandContext(ctx, mo.squashfusePath, args...) //nolint:gosec
	cmd.Stdout = mo.stdout
	cmd.Stderr = mo.stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to mount: %w", err)
	}

	return nil
}

// mountOpts accumulates mount options.
type mountOpts struct {
	stdout         io.Writer
	stderr         io.Writer
	squashfusePath string
}

// MountOpt are used to specify mount options.
type MountOpt func(*mountOpts) error

// OptMountStdout writes standard output to w.
func OptMountStdout(w io.Writer) MountOpt {
	return func(mo *mountOpts) error {
		mo.stdout = w
		return nil
	}
}

// OptMountStderr writes standard error to w.
func OptMountStderr(w io.Writer) MountOpt {
	return func(mo *mountOpts) error {
		mo.stderr = w
		return nil
	}
}

var errSquashfusePathInvalid = errors.New("squashfuse path must be relative or absolute")

// OptMountSquashfusePath sets the path to the squashfuse binary.
func OptMountSquashfusePath(path string) MountOpt {
	return func(mo *mountOpts) error {
		if filepath.Base(path) == path {
			return errSquashfusePathInvalid
		}
		mo.squashfusePath = path
		return nil
	}
}

var errUnsupportedImageType = errors.New("image type does not carry a mountable filesystem")

// Mount mounts the payload filesystem of the AppImage at path into mountPath.
// Only Type 2 AppImages, which carry a SquashFS payload, can be mounted.
//
// Mount may start one or more underlying processes. By default, stdout and stderr of these
// processes is discarded. To modify this behavior, consider using OptMountStdout and/or
// OptMountStderr.
func Mount(ctx context.Context, path, mountPath string, opts ...MountOpt) error {
	mo := mountOpts{
		squashfusePath: "squashfuse",
	}

	for _, opt := range opts {
		if err := opt(&mo); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	im, err := appimage.LoadImage(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	if im.Type() != appimage.Type2 {
		return errUnsupportedImageType
	}

	offset, err := im.PayloadOffset()
	if err != nil {
		return fmt.Errorf("failed to get payload offset: %w", err)
	}

	return mountSquashFS(ctx, offset, path, mountPath, mo)
}
