// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type catCmd struct{}

func (*catCmd) Name() string     { return "cat" }
func (*catCmd) Synopsis() string { return "writes a file from the image to stdout" }

func (*catCmd) Usage() string {
	return `cat <image> <path>

Copies the named file's contents to standard output.
`
}

func (*catCmd) SetFlags(*flag.FlagSet) {}

func (*catCmd) execute(image, name string) error {
	v, err := openVolume(image)
	if err != nil {
		return err
	}
	defer v.Unmount()

	e, err := v.Lookup(name)
	if err != nil {
		return err
	}
	data, err := v.ReadAll(e)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func (c *catCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := c.execute(f.Arg(0), f.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, "cat:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
