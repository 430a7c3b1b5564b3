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

	"github.com/omarPVP123131/Portix-OS-sub000/fat32"
)

type putCmd struct{}

func (*putCmd) Name() string     { return "put" }
func (*putCmd) Synopsis() string { return "copies a local file into the image" }

func (*putCmd) Usage() string {
	return `put <image> <local-file> <path>

Copies the local file into the image at the given path, creating the entry
if it does not exist and replacing its contents if it does.
`
}

func (*putCmd) SetFlags(*flag.FlagSet) {}

func (*putCmd) execute(image, local, dest string) error {
	data, err := os.ReadFile(local)
	if err != nil {
		return err
	}

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
	if err == fat32.ErrNotFound {
		e, err = v.CreateFile(cluster, name)
	}
	if err != nil {
		return err
	}
	return v.WriteFile(e, data)
}

func (c *putCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := c.execute(f.Arg(0), f.Arg(1), f.Arg(2)); err != nil {
		fmt.Fprintln(os.Stderr, "put:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
