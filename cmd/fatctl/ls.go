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

type lsCmd struct{}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "lists a directory inside the image" }

func (*lsCmd) Usage() string {
	return `ls <image> [path]

Lists the named directory, or the root when no path is given.
`
}

func (*lsCmd) SetFlags(*flag.FlagSet) {}

func (*lsCmd) execute(image, dir string) error {
	v, err := openVolume(image)
	if err != nil {
		return err
	}
	defer v.Unmount()

	cluster, err := v.LookupDir(dir)
	if err != nil {
		return err
	}
	return v.ListDir(cluster, func(e fat32.DirEntry) bool {
		kind := "-"
		if e.Dir {
			kind = "d"
		}
		fmt.Printf("%s %10d  %s\n", kind, e.Size, e.Name)
		return true
	})
}

func (c *lsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	dir := "/"
	if f.NArg() == 2 {
		dir = f.Arg(1)
	}
	if err := c.execute(f.Arg(0), dir); err != nil {
		fmt.Fprintln(os.Stderr, "ls:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
