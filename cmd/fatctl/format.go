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

	"github.com/omarPVP123131/Portix-OS-sub000/block/file"
	"github.com/omarPVP123131/Portix-OS-sub000/fat32"
)

type formatCmd struct {
	label  string
	sizeMB int
}

func (*formatCmd) Name() string { return "format" }

func (*formatCmd) Synopsis() string {
	return "creates an image file holding an empty FAT32 volume"
}

func (*formatCmd) Usage() string {
	return `format [flags] <image>

Creates (or truncates) the image file and writes an empty FAT32 filesystem
covering it.
`
}

func (c *formatCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.label, "label", "NO NAME", "volume label, up to 11 characters")
	f.IntVar(&c.sizeMB, "size", 64, "image size in MiB")
}

func (c *formatCmd) execute(image string) error {
	f, err := os.Create(image)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Truncate(int64(c.sizeMB) << 20); err != nil {
		return err
	}

	dev, err := file.New(f)
	if err != nil {
		return err
	}
	return fat32.Format(dev, c.label)
}

func (c *formatCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := c.execute(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "format:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
