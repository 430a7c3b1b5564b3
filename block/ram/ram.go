// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ram provides an in-memory implementation of block.Device.
package ram

import (
	"github.com/pkg/errors"
)

// SectorSize is the fixed sector size of a ram Device.
const SectorSize = 512

var (
	// ErrSectorSize indicates that the length of a provided buffer is not a
	// multiple of SectorSize.
	ErrSectorSize = errors.New("buffer length is not a multiple of the sector size")

	// ErrOutOfBounds indicates that the requested range for a ReadSectors or
	// WriteSectors call is out of bounds.
	ErrOutOfBounds = errors.New("sector range is out of bounds")
)

// Device implements block.Device using a []byte.
type Device []byte

// New returns a zero-filled Device holding numSectors sectors.
func New(numSectors int) Device {
	return make(Device, numSectors*SectorSize)
}

func (d Device) check(lba uint64, p []byte) error {
	if len(p)%SectorSize != 0 {
		return errors.Wrapf(ErrSectorSize, "len(p)=%d", len(p))
	}

	end := lba + uint64(len(p))/SectorSize
	if end > d.NumSectors() {
		return errors.Wrapf(ErrOutOfBounds, "[%v, %v)", lba, end)
	}

	return nil
}

// SectorSize implements block.Device.SectorSize for Device.
func (Device) SectorSize() int {
	return SectorSize
}

// NumSectors implements block.Device.NumSectors for Device.
func (d Device) NumSectors() uint64 {
	return uint64(len(d) / SectorSize)
}

// ReadSectors implements block.Device.ReadSectors for Device.
func (d Device) ReadSectors(lba uint64, p []byte) error {
	if err := d.check(lba, p); err != nil {
		return err
	}

	copy(p, d[lba*SectorSize:])
	return nil
}

// WriteSectors implements block.Device.WriteSectors for Device.
func (d Device) WriteSectors(lba uint64, p []byte) error {
	if err := d.check(lba, p); err != nil {
		return err
	}

	copy(d[lba*SectorSize:], p)
	return nil
}

// Flush implements block.Device.Flush for Device.
func (Device) Flush() error {
	return nil
}
