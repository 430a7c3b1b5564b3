// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ata implements a polled PIO driver for ATA disks attached to the
// two legacy IDE channels. The driver never relies on interrupts; every
// command is issued and then the status register is polled until the device
// reports completion or the polling bound is exhausted.
package ata

// DriveSlot selects the master or slave device on a channel.
type DriveSlot uint8

// The two device slots on each channel.
const (
	Master DriveSlot = 0
	Slave  DriveSlot = 1
)

func (s DriveSlot) String() string {
	if s == Master {
		return "master"
	}
	return "slave"
}

// pollBound caps every status polling loop. Polling is bounded by iteration
// count rather than wall-clock time so that the driver has no timer
// dependency.
const pollBound = 100000

// wordsPerSector is the number of 16-bit transfers needed to move one sector
// through the data register.
const wordsPerSector = SectorSize / 2

// Channel represents one IDE channel: a base block of eight registers plus a
// control port holding the alternate status register. Up to two drives (a
// master and a slave) share a channel.
type Channel struct {
	io   PortIO
	base uint16
	ctrl uint16
}

// NewChannel returns a Channel that drives the register block at base and the
// control port at ctrl through io.
func NewChannel(io PortIO, base, ctrl uint16) *Channel {
	return &Channel{io: io, base: base, ctrl: ctrl}
}

// Primary returns the legacy primary channel (ports 0x1F0 and 0x3F6).
func Primary(io PortIO) *Channel {
	return NewChannel(io, PrimaryBase, PrimaryControl)
}

// Secondary returns the legacy secondary channel (ports 0x170 and 0x376).
func Secondary(io PortIO) *Channel {
	return NewChannel(io, SecondaryBase, SecondaryControl)
}

func (c *Channel) readReg(reg uint16) uint8 {
	return c.io.In8(c.base + reg)
}

func (c *Channel) writeReg(reg uint16, v uint8) {
	c.io.Out8(c.base+reg, v)
}

// altStatus reads the alternate status register, which reports the same bits
// as the status register without acknowledging a pending interrupt.
func (c *Channel) altStatus() uint8 {
	return c.io.In8(c.ctrl)
}

// settle waits the mandatory 400ns after a drive select by reading the
// alternate status register four times; each port read takes at least 100ns.
func (c *Channel) settle() {
	for i := 0; i < 4; i++ {
		c.altStatus()
	}
}

// selectDrive writes the drive/head register and waits for the selection to
// settle. head carries the addressing-mode bits and, for 28-bit commands, the
// top four bits of the LBA.
func (c *Channel) selectDrive(slot DriveSlot, head uint8) {
	c.writeReg(regDriveHead, head|uint8(slot)<<4)
	c.settle()
}

// check inspects a status byte for the error and fault bits.
func (c *Channel) check(status uint8) error {
	if status&statusErr != 0 {
		return &DeviceError{Code: c.readReg(regError)}
	}
	if status&statusDF != 0 {
		return ErrDriveFault
	}
	return nil
}

// waitNotBusy polls until the busy bit clears, then checks for errors.
func (c *Channel) waitNotBusy() error {
	for i := 0; i < pollBound; i++ {
		status := c.readReg(regStatus)
		if status&statusBSY == 0 {
			return c.check(status)
		}
	}
	return ErrTimeout
}

// waitDRQ polls until the device asserts the data request bit, indicating
// that the data register is ready for a sector transfer. While the busy bit
// is set every other status bit is invalid, so errors are only inspected
// once it clears.
func (c *Channel) waitDRQ() error {
	for i := 0; i < pollBound; i++ {
		status := c.readReg(regStatus)
		if status&statusBSY != 0 {
			continue
		}
		if err := c.check(status); err != nil {
			return err
		}
		if status&statusDRQ != 0 {
			return nil
		}
	}
	return ErrTimeout
}

// identify issues IDENTIFY DEVICE to the given slot and returns the raw
// 256-word identification block. If the device answers with the ATAPI
// signature the command is retried as IDENTIFY PACKET DEVICE and atapi is
// true in the result.
func (c *Channel) identify(slot DriveSlot) (data [wordsPerSector]uint16, atapi bool, err error) {
	c.selectDrive(slot, 0xA0)

	c.writeReg(regSecCount, 0)
	c.writeReg(regLBALow, 0)
	c.writeReg(regLBAMid, 0)
	c.writeReg(regLBAHigh, 0)
	c.writeReg(regCommand, cmdIdentify)

	status := c.readReg(regStatus)
	if status == 0x00 || status == 0xFF {
		// A zero status means no device; 0xFF is a floating bus.
		return data, false, ErrNoDrive
	}

	for i := 0; ; i++ {
		if i == pollBound {
			return data, false, ErrTimeout
		}
		status = c.readReg(regStatus)
		if status&statusBSY != 0 {
			continue
		}
		// ATAPI devices abort IDENTIFY DEVICE and leave their signature in
		// the LBA mid/high registers.
		if !atapi && (c.readReg(regLBAMid) != 0 || c.readReg(regLBAHigh) != 0) {
			atapi = true
			c.writeReg(regCommand, cmdIdentifyPacket)
			continue
		}
		if status&statusErr != 0 {
			return data, atapi, &DeviceError{Code: c.readReg(regError)}
		}
		if status&statusDRQ != 0 {
			break
		}
	}

	for i := range data {
		data[i] = c.io.In16(c.base + regData)
	}
	return data, atapi, nil
}

// setupLBA28 programs a 28-bit read or write of count sectors starting at
// lba. count must be in [1, 256]; a count of 256 is encoded as zero.
func (c *Channel) setupLBA28(slot DriveSlot, lba uint64, count int) {
	c.selectDrive(slot, 0xE0|uint8(lba>>24)&0x0F)
	c.writeReg(regSecCount, uint8(count))
	c.writeReg(regLBALow, uint8(lba))
	c.writeReg(regLBAMid, uint8(lba>>8))
	c.writeReg(regLBAHigh, uint8(lba>>16))
}

// setupLBA48 programs a 48-bit read or write of count sectors starting at
// lba. The high-order bytes are written first, then the low-order bytes.
func (c *Channel) setupLBA48(slot DriveSlot, lba uint64, count int) {
	c.selectDrive(slot, 0x40)
	c.writeReg(regSecCount, uint8(count>>8))
	c.writeReg(regLBALow, uint8(lba>>24))
	c.writeReg(regLBAMid, uint8(lba>>32))
	c.writeReg(regLBAHigh, uint8(lba>>40))
	c.writeReg(regSecCount, uint8(count))
	c.writeReg(regLBALow, uint8(lba))
	c.writeReg(regLBAMid, uint8(lba>>8))
	c.writeReg(regLBAHigh, uint8(lba>>16))
}

// readSectors reads count sectors starting at lba into p using the PIO read
// command appropriate for the addressing mode.
func (c *Channel) readSectors(slot DriveSlot, lba uint64, count int, p []byte, ext bool) error {
	if ext {
		c.setupLBA48(slot, lba, count)
		c.writeReg(regCommand, cmdReadPIOExt)
	} else {
		c.setupLBA28(slot, lba, count)
		c.writeReg(regCommand, cmdReadPIO)
	}

	for s := 0; s < count; s++ {
		if err := c.waitDRQ(); err != nil {
			return err
		}
		off := s * SectorSize
		for w := 0; w < wordsPerSector; w++ {
			v := c.io.In16(c.base + regData)
			p[off+2*w] = uint8(v)
			p[off+2*w+1] = uint8(v >> 8)
		}
	}
	return nil
}

// writeSectors writes count sectors from p starting at lba and then flushes
// the drive's write cache.
func (c *Channel) writeSectors(slot DriveSlot, lba uint64, count int, p []byte, ext bool) error {
	flush := uint8(cmdCacheFlush)
	if ext {
		c.setupLBA48(slot, lba, count)
		c.writeReg(regCommand, cmdWritePIOExt)
		flush = cmdCacheFlushExt
	} else {
		c.setupLBA28(slot, lba, count)
		c.writeReg(regCommand, cmdWritePIO)
	}

	for s := 0; s < count; s++ {
		if err := c.waitDRQ(); err != nil {
			return err
		}
		off := s * SectorSize
		for w := 0; w < wordsPerSector; w++ {
			v := uint16(p[off+2*w]) | uint16(p[off+2*w+1])<<8
			c.io.Out16(c.base+regData, v)
		}
	}

	c.writeReg(regCommand, flush)
	return c.waitNotBusy()
}

// flush issues a standalone cache flush to the given slot.
func (c *Channel) flush(slot DriveSlot, ext bool) error {
	if ext {
		c.selectDrive(slot, 0x40)
		c.writeReg(regCommand, cmdCacheFlushExt)
	} else {
		c.selectDrive(slot, 0xE0)
		c.writeReg(regCommand, cmdCacheFlush)
	}
	return c.waitNotBusy()
}
