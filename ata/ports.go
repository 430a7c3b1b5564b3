// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ata

// PortIO abstracts the x86 I/O port instructions so that a Channel can be
// driven against real hardware or an emulated controller.
type PortIO interface {
	// In8 reads a byte from the given I/O port.
	In8(port uint16) uint8

	// Out8 writes a byte to the given I/O port.
	Out8(port uint16, v uint8)

	// In16 reads a 16-bit word from the given I/O port.
	In16(port uint16) uint16

	// Out16 writes a 16-bit word to the given I/O port.
	Out16(port uint16, v uint16)
}

// Register offsets from the channel's base I/O port.
const (
	regData      = 0 // 16-bit PIO data window
	regError     = 1 // read: error register
	regFeatures  = 1 // write: features register
	regSecCount  = 2
	regLBALow    = 3
	regLBAMid    = 4
	regLBAHigh   = 5
	regDriveHead = 6
	regStatus    = 7 // read: status register
	regCommand   = 7 // write: command register
)

// Status register bits.
const (
	statusErr = 0x01 // error occurred; consult the error register
	statusDRQ = 0x08 // data request: the device is ready to transfer
	statusDF  = 0x20 // drive fault
	statusBSY = 0x80 // busy; all other bits are invalid while set
)

// Commands.
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

// Legacy I/O port assignments for the two standard channels.
const (
	PrimaryBase      = 0x1F0
	PrimaryControl   = 0x3F6
	SecondaryBase    = 0x170
	SecondaryControl = 0x376
)

// SectorSize is the logical sector size used by the PIO data transfer
// commands. The driver does not support drives with other sector sizes.
const SectorSize = 512
