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
	"github.com/omarPVP123131/Portix-OS-sub000/mbr"
)

type infoCmd struct{}

func (*infoCmd) Name() string     { return "info" }
func (*infoCmd) Synopsis() string { return "prints the partition table and volume geometry" }

func (*infoCmd) Usage() string {
	return `info <image>

Prints the MBR partition table (if any) and the geometry of the mounted
FAT32 volume.
`
}

func (*infoCmd) SetFlags(*flag.FlagSet) {}

func (*infoCmd) execute(image string) error {
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

	fmt.Printf("%s: %v sectors of %v bytes\n", image, dev.NumSectors(), dev.SectorSize())

	if m, err := mbr.Read(dev); err == nil {
		for i, p := range m.Partitions {
			if p.IsEmpty() {
				continue
			}
			fmt.Printf("  partition %d: type %#02x, sectors [%v, %v)\n",
				i, uint8(p.Type), p.StartLBA, uint64(p.StartLBA)+uint64(p.NumSectors))
		}
	}

	v, err := fat32.Mount(dev)
	if err != nil {
		return err
	}
	fmt.Printf("  FAT32 volume at sector %v\n", v.Start())
	fmt.Printf("    cluster size: %v bytes\n", v.ClusterSize())
	fmt.Printf("    clusters:     %v\n", v.NumClusters())
	fmt.Printf("    root cluster: %v\n", v.RootCluster())
	return nil
}

func (c *infoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := c.execute(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "info:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
