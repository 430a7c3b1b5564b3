// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package file implements the block.Device interface backed by a disk image
// file (or, on supported platforms, a raw block device node).
package file

import (
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const defaultSectorSize = 512

// File represents a block device backed by a file on a traditional file system.
type File struct {
	f          *os.File
	sectorSize int64
	numSectors uint64
}

// New creates and returns a new File, using f as the backing store. The size
// of the device represented by the returned File is the size of f, rounded
// down to a whole number of sectors. New will not close f if any errors occur.
func New(f *os.File) (*File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, f.Name())
	}

	sectorSize := int64(defaultSectorSize)
	size := info.Size()
	if info.Mode()&os.ModeDevice != 0 {
		// Raw device nodes report a zero size from Stat; ask the kernel.
		if size, sectorSize, err = deviceGeometry(f.Fd()); err != nil {
			return nil, errors.Wrap(err, f.Name())
		}
	}

	if glog.V(2) {
		glog.Info("File name: ", info.Name())
		glog.Info("     size: ", size)
		glog.Info("     mode: ", info.Mode())
	}

	return &File{
		f:          f,
		sectorSize: sectorSize,
		numSectors: uint64(size / sectorSize),
	}, nil
}

// SectorSize returns the size in bytes of the smallest unit that can be
// written to the File.
func (f *File) SectorSize() int {
	return int(f.sectorSize)
}

// NumSectors returns the fixed number of addressable sectors.
func (f *File) NumSectors() uint64 {
	return f.numSectors
}

func (f *File) check(lba uint64, p []byte) error {
	if int64(len(p))%f.sectorSize != 0 {
		return errors.Errorf("len(p) (%v) is not a multiple of the sector size", len(p))
	}

	if end := lba + uint64(int64(len(p))/f.sectorSize); end > f.numSectors {
		return errors.Errorf("the requested range [%v, %v) is out of bounds", lba, end)
	}

	return nil
}

// ReadSectors reads len(p) bytes from the device starting at sector lba.
func (f *File) ReadSectors(lba uint64, p []byte) error {
	if err := f.check(lba, p); err != nil {
		return err
	}

	if glog.V(2) {
		glog.Infof("ReadSectors: reading %v bytes from sector %#x\n", len(p), lba)
	}

	_, err := f.f.ReadAt(p, int64(lba)*f.sectorSize)
	return err
}

// WriteSectors writes the contents of p to the device starting at sector lba.
func (f *File) WriteSectors(lba uint64, p []byte) error {
	if err := f.check(lba, p); err != nil {
		return err
	}

	if glog.V(2) {
		glog.Infof("WriteSectors: writing %v bytes to sector %#x\n", len(p), lba)
	}

	_, err := f.f.WriteAt(p, int64(lba)*f.sectorSize)
	return err
}

// Flush forces any writes that have been cached in memory to be committed to
// persistent storage.
func (f *File) Flush() error {
	return f.f.Sync()
}

// Close calls Flush() and then closes the device, rendering it unusable for
// I/O.
func (f *File) Close() error {
	if err := f.Flush(); err != nil {
		return err
	}

	return f.f.Close()
}
