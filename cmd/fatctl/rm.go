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

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "deletes an entry from the image" }

func (*rmCmd) Usage() string {
	return `rm <image> <path>

Deletes the named entry and frees its cluster chain. Directories are removed
without checking that they are empty.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) execute(image, dest string) error {
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
	e, err := v.FindEntry(cluster, name)
	if err != nil {
		return err
	}
	return v.DeleteEntry(e)
}

func (c *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := c.execute(f.Arg(0), f.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, "rm:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
