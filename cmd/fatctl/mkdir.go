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

type mkdirCmd struct{}

func (*mkdirCmd) Name() string     { return "mkdir" }
func (*mkdirCmd) Synopsis() string { return "creates a directory inside the image" }

func (*mkdirCmd) Usage() string {
	return `mkdir <image> <path>

Creates a new directory at the given path. The parent must already exist.
`
}

func (*mkdirCmd) SetFlags(*flag.FlagSet) {}

func (*mkdirCmd) execute(image, dest string) error {
	v, err := openVolume(image)
	if err != nil {
		return err
	}
	defer v.Unmount()

	dir, name, err := splitTarget(dest)
	if err != nil {
		return err
	}
	cluster, err := v.LookupDir(dir)
	if err != nil {
		return err
	}
	_, err = v.CreateDir(cluster, name)
	return err
}

func (c *mkdirCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := c.execute(f.Arg(0), f.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, "mkdir:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
