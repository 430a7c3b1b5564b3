// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"encoding/binary"

	"github.com/golang/glog"
)

// FAT entry values. Only the low 28 bits of an entry are significant; the
// top 4 bits are reserved and must be preserved on write.
const (
	entryMask    = 0x0FFFFFFF
	freeMarker   = 0x00000000
	badCluster   = 0x0FFFFFF7
	eocMarker    = 0x0FFFFFFF
	eocMin       = 0x0FFFFFF8
	fatEntrySize = 4
)

// isEOC reports whether a FAT entry value marks the end of a chain.
func isEOC(value uint32) bool {
	return value >= eocMin
}

// fatLocation returns the sector of the first FAT copy holding the entry for
// cluster c, and the byte offset of the entry within that sector.
func (v *Volume) fatLocation(c uint32) (lba uint64, off int) {
	byteOff := uint64(c) * fatEntrySize
	return v.fatStart + byteOff/uint64(v.bytesPerSec), int(byteOff % uint64(v.bytesPerSec))
}

// readFAT returns the FAT entry for cluster c, masked to its significant
// bits.
func (v *Volume) readFAT(c uint32) (uint32, error) {
	if !v.validCluster(c) {
		return 0, ErrCorrupt
	}
	lba, off := v.fatLocation(c)
	sector := make([]byte, v.bytesPerSec)
	if err := v.readSector(lba, sector); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(sector[off:]) & entryMask, nil
}

// writeFAT sets the FAT entry for cluster c in every FAT copy, preserving
// the reserved top bits of the existing entry.
func (v *Volume) writeFAT(c, value uint32) error {
	if !v.validCluster(c) {
		return ErrCorrupt
	}
	lba, off := v.fatLocation(c)
	sector := make([]byte, v.bytesPerSec)
	for copyIdx := uint32(0); copyIdx < v.numFATs; copyIdx++ {
		mirror := lba + uint64(copyIdx)*uint64(v.fatSize)
		if err := v.readSector(mirror, sector); err != nil {
			return err
		}
		old := binary.LittleEndian.Uint32(sector[off:])
		binary.LittleEndian.PutUint32(sector[off:], old&^uint32(entryMask)|value&entryMask)
		if err := v.writeSector(mirror, sector); err != nil {
			return err
		}
	}
	return nil
}

// allocCluster claims the first free cluster found by a linear scan from
// cluster 2, marks it end-of-chain, and links it from prev when prev is a
// valid cluster. It returns ErrNoSpace when the scan finds nothing.
func (v *Volume) allocCluster(prev uint32) (uint32, error) {
	for c := uint32(2); c < v.clusters+2; c++ {
		value, err := v.readFAT(c)
		if err != nil {
			return 0, err
		}
		if value != freeMarker {
			continue
		}
		if err := v.writeFAT(c, eocMarker); err != nil {
			return 0, err
		}
		if prev != 0 {
			if err := v.writeFAT(prev, c); err != nil {
				return 0, err
			}
		}
		if glog.V(2) {
			glog.Infof("fat32: allocated cluster %v (prev %v)", c, prev)
		}
		return c, nil
	}
	return 0, ErrNoSpace
}

// freeChain walks the chain starting at c and marks every visited cluster
// free. The walk stops at an end-of-chain marker or at any value that does
// not name a valid cluster. The iteration is bounded by the cluster count,
// so a cyclic chain cannot hang the driver.
func (v *Volume) freeChain(c uint32) error {
	for i := uint32(0); i < v.clusters; i++ {
		if !v.validCluster(c) {
			return nil
		}
		next, err := v.readFAT(c)
		if err != nil {
			return err
		}
		if err := v.writeFAT(c, freeMarker); err != nil {
			return err
		}
		if glog.V(2) {
			glog.Infof("fat32: freed cluster %v", c)
		}
		if isEOC(next) {
			return nil
		}
		c = next
	}
	return ErrCorrupt
}

// chainLength walks a chain and returns the number of clusters in it.
func (v *Volume) chainLength(c uint32) (int, error) {
	n := 0
	for i := uint32(0); i < v.clusters; i++ {
		if !v.validCluster(c) {
			return n, nil
		}
		n++
		next, err := v.readFAT(c)
		if err != nil {
			return n, err
		}
		if isEOC(next) {
			return n, nil
		}
		c = next
	}
	return n, ErrCorrupt
}
