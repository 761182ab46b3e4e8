// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package resigntool adds resigntool commands to a parent cobra.Command.
package resigntool

import (
	"github.com/spf13/cobra"
	"github.com/xXRoxXeRXx/appimage-resigner/internal/app/resigntool"
)

// commandOpts contains configured options.
type commandOpts struct {
	rootPath string
}

// CommandOpt are used to configure co.
type CommandOpt func(co *commandOpts) error

// command contains configured options and state.
type command struct {
	opts commandOpts
	app  *resigntool.App
}

// initApp initializes the resigntool app, wiring output to the streams of
// cmd.
func (c *command) initApp(cmd *cobra.Command, _ []string) error {
	app, err := resigntool.New(
		resigntool.OptAppOutput(cmd.OutOrStdout()),
		resigntool.OptAppError(cmd.ErrOrStderr()),
	)
	c.app = app

	return err
}

// AddCommands adds resigntool commands to cmd according to opts.
//
// Commands are provided to sign and re-sign AppImage artifacts, verify
// embedded or detached signatures, strip signatures, inspect artifacts, and
// produce and verify digest attestations.
func AddCommands(cmd *cobra.Command, opts ...CommandOpt) error {
	c := &command{
		opts: commandOpts{
			rootPath: cmd.Root().CommandPath(),
		},
	}

	for _, opt := range opts {
		if err := opt(&c.opts); err != nil {
			return err
		}
	}

	cmd.AddCommand(
		c.getSign(),
		c.getVerify(),
		c.getStrip(),
		c.getInfo(),
		c.getAttest(),
		c.getVerifyAttestation(),
		c.getMount(),
		c.getUnmount(),
	)

	return nil
}
