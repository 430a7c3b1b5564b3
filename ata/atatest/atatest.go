// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package atatest emulates a legacy IDE controller behind the ata.PortIO
// interface. It implements enough of the register-level protocol (IDENTIFY,
// PIO reads and writes in both addressing modes, cache flush) to exercise the
// ata package without hardware.
package atatest

import (
	"strings"
)

const sectorSize = 512

// Status register bits reported by the emulated controller.
const (
	statusErr = 0x01
	statusDRQ = 0x08
	statusDF  = 0x20
	statusRDY = 0x40
	statusBSY = 0x80
)

// Commands understood by the emulated controller.
const (
	cmdReadPIO        = 0x20
	cmdReadPIOExt     = 0x24
	cmdWritePIO       = 0x30
	cmdWritePIOExt    = 0x34
	cmdCacheFlush     = 0xE7
	cmdCacheFlushExt  = 0xEA
	cmdIdentifyPacket = 0xA1
	cmdIdentify       = 0xEC
)

// Disk is one emulated device on a controller.
type Disk struct {
	// Data is the raw contents of the disk. Its length must be a multiple
	// of 512.
	Data []byte

	// LBA48 makes the disk advertise 48-bit addressing support.
	LBA48 bool

	// ATAPI makes the disk respond to IDENTIFY with the packet-device
	// signature.
	ATAPI bool

	Model    string
	Serial   string
	Firmware string

	// CommandErr, if nonzero, makes every read and write command fail with
	// the error bit set and this value in the error register.
	CommandErr uint8

	// Fault, if set, makes every read and write command fail with the
	// drive fault bit set.
	Fault bool

	// Flushes counts cache flush commands received by the disk.
	Flushes int
}

// NewDisk returns a zero-filled Disk holding numSectors sectors.
func NewDisk(numSectors int) *Disk {
	return &Disk{
		Data:     make([]byte, numSectors*sectorSize),
		Model:    "ATATEST EMULATED DISK",
		Serial:   "0000000001",
		Firmware: "0.1",
	}
}

func (d *Disk) numSectors() uint64 {
	return uint64(len(d.Data) / sectorSize)
}

// putString packs an ASCII field into IDENTIFY words, two characters per
// word with the first character in the high byte, space padded.
func putString(words []uint16, first, last int, s string) {
	s = s + strings.Repeat(" ", 2*(last-first+1)-len(s))
	for i := first; i <= last; i++ {
		words[i] = uint16(s[2*(i-first)])<<8 | uint16(s[2*(i-first)+1])
	}
}

func (d *Disk) identify() [256]uint16 {
	var words [256]uint16
	if d.ATAPI {
		words[0] = 0x8000 | 0x0580
	}
	putString(words[:], 10, 19, d.Serial)
	putString(words[:], 23, 26, d.Firmware)
	putString(words[:], 27, 46, d.Model)

	n := d.numSectors()
	if d.LBA48 {
		words[83] = 1 << 10
		words[100] = uint16(n)
		words[101] = uint16(n >> 16)
		words[102] = uint16(n >> 32)
		words[103] = uint16(n >> 48)
		if n > 1<<28 {
			n = 1 << 28
		}
	}
	words[60] = uint16(n)
	words[61] = uint16(n >> 16)
	return words
}

// Controller emulates one IDE channel with up to two attached disks. It
// implements ata.PortIO.
type Controller struct {
	base uint16
	ctrl uint16

	disks [2]*Disk

	// Accesses counts every port operation, so tests can assert that a
	// rejected request never touched the controller.
	Accesses int

	// BusyReads makes the first N status reads after every command report
	// busy, with the other status bits holding stale garbage, as real
	// hardware does while a command is in flight.
	BusyReads int

	busyLeft int

	// Register file. regs holds the last written value per register and
	// prev the value before that, which is how the 48-bit two-write
	// protocol latches the high-order bytes.
	regs [8]uint8
	prev [8]uint8

	status uint8
	errReg uint8

	// In-flight PIO transfer.
	buf      []byte
	bufOff   int
	writing  bool
	writeLBA uint64
}

// New returns a Controller listening on the given base and control ports.
func New(base, ctrl uint16) *Controller {
	return &Controller{base: base, ctrl: ctrl}
}

// Attach places a disk in the given slot (0 for master, 1 for slave).
func (c *Controller) Attach(slot int, d *Disk) {
	c.disks[slot] = d
}

func (c *Controller) selected() *Disk {
	return c.disks[c.regs[6]>>4&1]
}

// lba28 assembles the 28-bit address from the low registers and the head
// bits.
func (c *Controller) lba28() (lba uint64, count int) {
	lba = uint64(c.regs[3]) | uint64(c.regs[4])<<8 | uint64(c.regs[5])<<16 |
		uint64(c.regs[6]&0x0F)<<24
	count = int(c.regs[2])
	if count == 0 {
		count = 256
	}
	return lba, count
}

// lba48 assembles the 48-bit address from the current and previous register
// writes.
func (c *Controller) lba48() (lba uint64, count int) {
	lba = uint64(c.regs[3]) | uint64(c.regs[4])<<8 | uint64(c.regs[5])<<16 |
		uint64(c.prev[3])<<24 | uint64(c.prev[4])<<32 | uint64(c.prev[5])<<40
	count = int(c.prev[2])<<8 | int(c.regs[2])
	if count == 0 {
		count = 65536
	}
	return lba, count
}

func (c *Controller) fail(code uint8, fault bool) {
	c.status = statusRDY | statusErr
	c.errReg = code
	if fault {
		c.status = statusRDY | statusDF
	}
	c.buf = nil
}

// command dispatches a write to the command register.
func (c *Controller) command(cmd uint8) {
	d := c.selected()
	if d == nil {
		// An empty slot reads back an all-zero status.
		c.status = 0
		return
	}

	switch cmd {
	case cmdIdentify, cmdIdentifyPacket:
		if d.ATAPI && cmd == cmdIdentify {
			// Abort with the packet-device signature in LBA mid/high.
			c.regs[4] = 0x14
			c.regs[5] = 0xEB
			c.status = statusRDY
			return
		}
		c.regs[4] = 0
		c.regs[5] = 0
		words := d.identify()
		c.buf = make([]byte, 2*len(words))
		for i, w := range words {
			c.buf[2*i] = uint8(w)
			c.buf[2*i+1] = uint8(w >> 8)
		}
		c.bufOff = 0
		c.writing = false
		c.status = statusRDY | statusDRQ

	case cmdReadPIO, cmdReadPIOExt:
		if d.CommandErr != 0 || d.Fault {
			c.fail(d.CommandErr, d.Fault)
			return
		}
		var lba uint64
		var count int
		if cmd == cmdReadPIOExt {
			lba, count = c.lba48()
		} else {
			lba, count = c.lba28()
		}
		if lba+uint64(count) > d.numSectors() {
			c.fail(0x10, false) // IDNF
			return
		}
		c.buf = make([]byte, count*sectorSize)
		copy(c.buf, d.Data[lba*sectorSize:])
		c.bufOff = 0
		c.writing = false
		c.status = statusRDY | statusDRQ

	case cmdWritePIO, cmdWritePIOExt:
		if d.CommandErr != 0 || d.Fault {
			c.fail(d.CommandErr, d.Fault)
			return
		}
		var lba uint64
		var count int
		if cmd == cmdWritePIOExt {
			lba, count = c.lba48()
		} else {
			lba, count = c.lba28()
		}
		if lba+uint64(count) > d.numSectors() {
			c.fail(0x10, false)
			return
		}
		c.buf = make([]byte, count*sectorSize)
		c.bufOff = 0
		c.writing = true
		c.writeLBA = lba
		c.status = statusRDY | statusDRQ

	case cmdCacheFlush, cmdCacheFlushExt:
		d.Flushes++
		c.status = statusRDY

	default:
		c.fail(0x04, false) // ABRT
	}
}

// In8 implements ata.PortIO.
func (c *Controller) In8(port uint16) uint8 {
	c.Accesses++
	if port == c.ctrl || port-c.base == 7 {
		if c.busyLeft > 0 {
			// While busy, every other status bit is stale garbage.
			c.busyLeft--
			return statusBSY | statusErr | statusDF
		}
		return c.status
	}
	if port-c.base == 1 {
		return c.errReg
	}
	return c.regs[port-c.base]
}

// Out8 implements ata.PortIO.
func (c *Controller) Out8(port uint16, v uint8) {
	c.Accesses++
	if port == c.ctrl {
		return
	}
	reg := port - c.base
	if reg == 7 {
		c.command(v)
		if c.selected() != nil {
			c.busyLeft = c.BusyReads
		}
		return
	}
	c.prev[reg] = c.regs[reg]
	c.regs[reg] = v
	if reg == 6 && c.selected() != nil {
		c.status = statusRDY
	}
}

// In16 implements ata.PortIO. Reads drain the in-flight transfer buffer.
func (c *Controller) In16(port uint16) uint16 {
	c.Accesses++
	if port != c.base || c.writing || c.bufOff+2 > len(c.buf) {
		return 0
	}
	v := uint16(c.buf[c.bufOff]) | uint16(c.buf[c.bufOff+1])<<8
	c.bufOff += 2
	if c.bufOff == len(c.buf) {
		c.status = statusRDY
	}
	return v
}

// Out16 implements ata.PortIO. Writes fill the in-flight transfer buffer and
// commit it to the disk once complete.
func (c *Controller) Out16(port uint16, v uint16) {
	c.Accesses++
	if port != c.base || !c.writing || c.bufOff+2 > len(c.buf) {
		return
	}
	c.buf[c.bufOff] = uint8(v)
	c.buf[c.bufOff+1] = uint8(v >> 8)
	c.bufOff += 2
	if c.bufOff == len(c.buf) {
		copy(c.selected().Data[c.writeLBA*sectorSize:], c.buf)
		c.status = statusRDY
		c.writing = false
	}
}
