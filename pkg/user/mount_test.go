// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package user

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMountErrors(t *testing.T) {
	dir := t.TempDir()

	notAnImage := filepath.Join(dir, "not-an-image")
	if err := os.WriteFile(notAnImage, make([]byte, 64), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		opts    []MountOpt
		wantErr error
	}{
		{
			name:    "BareSquashfusePath",
			path:    notAnImage,
			opts:    []MountOpt{OptMountSquashfusePath("squashfuse")},
			wantErr: errSquashfusePathInvalid,
		},
		{
			name: "NotAnImage",
			path: notAnImage,
		},
		{
			name: "MissingFile",
			path: filepath.Join(dir, "missing"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Mount(context.Background(), tt.path, dir, tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnmountOptErrors(t *testing.T) {
	err := Unmount(context.Background(), t.TempDir(), OptUnmountFusermountPath("fusermount"))
	if !errors.Is(err, errFusermountPathInvalid) {
		t.Fatalf("got error %v, want %v", err, errFusermountPathInvalid)
	}
}
