// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package resigntool

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestCommandStrip(t *testing.T) {
	path := makeTestImage(t)

	c := &command{}
	runCommand(t, c.getSign(), []string{"--key", keyPath("private.asc"), path}, nil)

	c = &command{}
	out, _ := runCommand(t, c.getStrip(), []string{path}, nil)
	if !strings.Contains(out, "Signature removed") {
		t.Errorf("unexpected output: %q", out)
	}

	c = &command{}
	out, _ = runCommand(t, c.getStrip(), []string{path}, nil)
	if !strings.Contains(out, "No signature present") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestCommandStripSidecar(t *testing.T) {
	path := makeTestImage(t)

	c := &command{}
	runCommand(t, c.getSign(), []string{"--key", keyPath("private.asc"), "--detached", path}, nil)

	if _, err := os.Stat(path + ".asc"); err != nil {
		t.Fatalf("expected sidecar signature: %v", err)
	}

	c = &command{}
	out, _ := runCommand(t, c.getStrip(), []string{"--asc", path}, nil)
	if !strings.Contains(out, "Signature file") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := os.Stat(path + ".asc"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got error %v, want %v", err, os.ErrNotExist)
	}
}

func TestCommandInfo(t *testing.T) {
	path := makeTestImage(t)

	c := &command{}
	out, _ := runCommand(t, c.getInfo(), []string{path}, nil)
	if !strings.Contains(out, "AppImage Type 2") {
		t.Errorf("unexpected output: %q", out)
	}

	c = &command{}
	runCommand(t, c.getSign(), []string{"--key", keyPath("private.asc"), path}, nil)

	c = &command{}
	out, _ = runCommand(t, c.getInfo(), []string{path}, nil)
	if !strings.Contains(out, "embedded") {
		t.Errorf("unexpected output: %q", out)
	}
}
