// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

//go:build mage
// +build mage

package main

import (
	"fmt"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/xXRoxXeRXx/appimage-resigner/internal/pkg/git"
)

// Aliases defines command-line aliases exposed by Mage.
//
//nolint:deadcode
var Aliases = map[string]interface{}{
	"build":   Build.All,
	"cover":   Cover.All,
	"install": Install.All,
	"test":    Test.All,
}

// ldFlags returns linker flags that stamp version information derived from
// the git working tree into the binary.
func ldFlags() (string, error) {
	d, err := git.Describe(".")
	if err != nil {
		return "", err
	}

	vals := map[string]string{
		"main.builtBy": "mage",
		"main.commit":  d.CommitHash(),
		"main.date":    d.CommitTime().UTC().Format(time.RFC3339),
	}

	if !d.IsClean() {
		vals["main.state"] = "dirty"
	}

	if v, err := d.Version(); err == nil {
		vals["main.version"] = v.String()
	}

	flags := ""
	for k, v := range vals {
		flags += fmt.Sprintf(" -X %s=%s", k, v)
	}

	return flags, nil
}

type Build mg.Namespace

// All compiles all assets.
func (ns Build) All() {
	mg.Deps(ns.Source)
}

// Source compiles all source code.
func (Build) Source() error {
	flags, err := ldFlags()
	if err != nil {
		return err
	}

	return sh.RunV(mg.GoCmd(), "build", "-ldflags", flags, "./...")
}

type Install mg.Namespace

// All installs all assets.
func (ns Install) All() {
	mg.Deps(ns.Bin)
}

// Bin installs binary to GOBIN.
func (Install) Bin() error {
	flags, err := ldFlags()
	if err != nil {
		return err
	}

	return sh.RunV(mg.GoCmd(), "install", "-ldflags", flags, "./cmd/resigntool")
}

type Test mg.Namespace

// All runs all tests.
func (ns Test) All() {
	mg.Deps(ns.Unit)
}

// Unit runs all unit tests.
func (Test) Unit() error {
	return sh.RunV(mg.GoCmd(), "test", "-race", "-cover", "./...")
}

type Cover mg.Namespace

// All runs all tests, writing coverage profile to the specified path.
func (ns Cover) All(path string) {
	mg.Deps(mg.F(ns.Unit, path))
}

// Unit runs all unit tests, writing coverage profile to the specified path.
func (Cover) Unit(path string) error {
	return sh.RunV(mg.GoCmd(), "test", "-race", "-coverprofile", path, "./...")
}
