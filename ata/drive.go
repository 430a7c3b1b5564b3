// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ata

// maxSectorsPerCommand is the largest transfer a single 28-bit PIO command
// can carry. Larger requests are split into multiple commands.
const maxSectorsPerCommand = 256

// Drive represents one ATA disk attached to a channel. It implements
// block.Device, so the filesystem drivers can run directly on top of it.
type Drive struct {
	channel *Channel
	slot    DriveSlot
	lba48   bool
	sectors uint64
}

// SectorSize returns the size in bytes of one sector.
func (d *Drive) SectorSize() int {
	return SectorSize
}

// NumSectors returns the number of addressable sectors on the drive.
func (d *Drive) NumSectors() uint64 {
	return d.sectors
}

// LBA48 reports whether the drive supports 48-bit addressing.
func (d *Drive) LBA48() bool {
	return d.lba48
}

// check validates a request before any register is touched. A request that
// fails validation must leave the hardware completely untouched.
func (d *Drive) check(lba uint64, p []byte) error {
	if len(p)%SectorSize != 0 {
		return ErrBadBuffer
	}
	if end := lba + uint64(len(p)/SectorSize); end > d.sectors || end < lba {
		return ErrOutOfRange
	}
	return nil
}

// ext reports whether a transfer of count sectors at lba uses the 48-bit
// command variants: always when the drive advertises 48-bit support, and
// also when the address does not fit the 28-bit register layout.
func (d *Drive) ext(lba uint64, count int) bool {
	return d.lba48 || lba+uint64(count) > 1<<28
}

// ReadSectors reads len(p) bytes from the drive starting at sector lba.
func (d *Drive) ReadSectors(lba uint64, p []byte) error {
	if err := d.check(lba, p); err != nil {
		return err
	}

	for len(p) > 0 {
		count := len(p) / SectorSize
		if count > maxSectorsPerCommand {
			count = maxSectorsPerCommand
		}
		if err := d.channel.readSectors(d.slot, lba, count, p, d.ext(lba, count)); err != nil {
			return err
		}
		lba += uint64(count)
		p = p[count*SectorSize:]
	}
	return nil
}

// WriteSectors writes the contents of p to the drive starting at sector lba.
func (d *Drive) WriteSectors(lba uint64, p []byte) error {
	if err := d.check(lba, p); err != nil {
		return err
	}

	for len(p) > 0 {
		count := len(p) / SectorSize
		if count > maxSectorsPerCommand {
			count = maxSectorsPerCommand
		}
		if err := d.channel.writeSectors(d.slot, lba, count, p, d.ext(lba, count)); err != nil {
			return err
		}
		lba += uint64(count)
		p = p[count*SectorSize:]
	}
	return nil
}

// Flush commits the drive's write cache to the platters.
func (d *Drive) Flush() error {
	return d.channel.flush(d.slot, d.lba48)
}
