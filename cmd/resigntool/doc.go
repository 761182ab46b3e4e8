// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

/*
Resigntool is a program for signing and verifying AppImage artifacts.

A set of commands are provided to sign and re-sign AppImage artifacts,
verify embedded or detached signatures, strip signatures, inspect artifacts,
and produce and verify digest attestations.
*/
package main
