// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package block defines the sector-granular interface that all block devices
// must present to the filesystem drivers.
package block

// Device is the interface that all block devices must present to the
// filesystem drivers. Offsets and lengths are expressed in whole sectors;
// partial-sector I/O is not supported by the underlying hardware.
type Device interface {
	// SectorSize returns the size in bytes of the smallest unit that the
	// device can read or write at once.
	SectorSize() int

	// NumSectors returns the fixed number of addressable sectors.
	NumSectors() uint64

	// ReadSectors reads len(p) bytes starting at sector lba. len(p) must be
	// a multiple of SectorSize(), and the full range must lie within the
	// device.
	ReadSectors(lba uint64, p []byte) error

	// WriteSectors writes the contents of p starting at sector lba. The
	// same constraints as ReadSectors apply.
	WriteSectors(lba uint64, p []byte) error

	// Flush forces any writes that have been cached by the device to be
	// committed to persistent storage.
	Flush() error
}
