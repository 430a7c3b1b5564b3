// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// fatctl inspects and manipulates FAT32 disk images using the same driver
// the kernel runs against real hardware.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&formatCmd{}, "")
	subcommands.Register(&infoCmd{}, "")
	subcommands.Register(&hexdumpCmd{}, "")
	subcommands.Register(&lsCmd{}, "")
	subcommands.Register(&catCmd{}, "")
	subcommands.Register(&putCmd{}, "")
	subcommands.Register(&mkdirCmd{}, "")
	subcommands.Register(&rmCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
