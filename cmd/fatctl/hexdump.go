// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/omarPVP123131/Portix-OS-sub000/block/file"
)

type hexdumpCmd struct {
	lba   uint64
	count int
}

func (*hexdumpCmd) Name() string     { return "hexdump" }
func (*hexdumpCmd) Synopsis() string { return "dumps raw sectors from the image" }

func (*hexdumpCmd) Usage() string {
	return `hexdump [flags] <image>

Reads raw sectors from the image and dumps them to standard output.
`
}

func (c *hexdumpCmd) SetFlags(f *flag.FlagSet) {
	f.Uint64Var(&c.lba, "lba", 0, "first sector to dump")
	f.IntVar(&c.count, "count", 1, "number of sectors to dump")
}

func (c *hexdumpCmd) execute(image string) error {
	f, err := os.Open(image)
	if err != nil {
		return err
	}
	dev, err := file.New(f)
	if err != nil {
		f.Close()
		return err
	}
	defer dev.Close()

	buf := make([]byte, c.count*dev.SectorSize())
	if err := dev.ReadSectors(c.lba, buf); err != nil {
		return err
	}
	fmt.Printf("sectors [%v, %v):\n", c.lba, c.lba+uint64(c.count))
	_, err = os.Stdout.WriteString(hex.Dump(buf))
	return err
}

func (c *hexdumpCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.count < 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := c.execute(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "hexdump:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
