// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package fat32 implements a FAT32 filesystem driver on top of a sector
// granular block device. The driver keeps no sector cache: every FAT lookup,
// directory scan, and data transfer re-issues raw device I/O, so a Volume is
// safe for strictly sequential use only.
package fat32

import (
	"io"

	"github.com/golang/glog"
	"go.uber.org/multierr"

	"github.com/omarPVP123131/Portix-OS-sub000/block"
	"github.com/omarPVP123131/Portix-OS-sub000/mbr"
)

// Volume is a mounted FAT32 filesystem.
type Volume struct {
	dev   block.Device
	start uint64 // first sector of the volume

	bytesPerSec uint32
	secPerClus  uint32
	numFATs     uint32
	fatSize     uint32
	rootCluster uint32

	fatStart  uint64 // first sector of the first FAT copy
	dataStart uint64 // first sector of the data region
	clusters  uint32 // number of data clusters
}

// Mount locates and validates a FAT32 volume on dev. It first scans the MBR
// partition table for a FAT-typed partition; if the table holds none, sector
// zero itself is tried as an unpartitioned "superfloppy" volume boot record.
func Mount(dev block.Device) (*Volume, error) {
	sector := make([]byte, dev.SectorSize())
	if err := dev.ReadSectors(0, sector); err != nil {
		return nil, err
	}

	var start uint64
	if m, err := mbr.Parse(sector); err == nil {
		if p, ok := m.FirstFAT(); ok {
			start = uint64(p.StartLBA)
		}
	}

	vbr := sector
	if start != 0 {
		if start >= dev.NumSectors() {
			return nil, ErrNotFat32
		}
		vbr = make([]byte, dev.SectorSize())
		if err := dev.ReadSectors(start, vbr); err != nil {
			return nil, err
		}
	}

	br, err := parseBootRecord(vbr)
	if err != nil {
		return nil, err
	}
	if int(br.bytesPerSec) != dev.SectorSize() {
		return nil, ErrNotFat32
	}

	v := &Volume{
		dev:         dev,
		start:       start,
		bytesPerSec: br.bytesPerSec,
		secPerClus:  br.secPerClus,
		numFATs:     br.numFATs,
		fatSize:     br.fatSize,
		rootCluster: br.rootCluster,
	}
	v.fatStart = start + uint64(br.reserved)
	v.dataStart = v.fatStart + uint64(br.numFATs)*uint64(br.fatSize)
	v.clusters = (br.totalSecs - br.reserved - br.numFATs*br.fatSize) / br.secPerClus

	if !v.validCluster(br.rootCluster) {
		return nil, ErrNotFat32
	}

	if glog.V(1) {
		glog.Infof("fat32: mounted volume at sector %v: %v clusters of %v sectors, root at cluster %v",
			start, v.clusters, v.secPerClus, v.rootCluster)
	}
	return v, nil
}

// Unmount flushes the underlying device and, if the device supports it,
// closes it. The Volume must not be used afterwards.
func (v *Volume) Unmount() error {
	err := v.dev.Flush()
	if c, ok := v.dev.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	v.dev = nil
	return err
}

// RootCluster returns the cluster number of the root directory.
func (v *Volume) RootCluster() uint32 {
	return v.rootCluster
}

// ClusterSize returns the allocation unit size in bytes.
func (v *Volume) ClusterSize() int {
	return int(v.secPerClus) * int(v.bytesPerSec)
}

// NumClusters returns the number of clusters in the data region.
func (v *Volume) NumClusters() uint32 {
	return v.clusters
}

// Start returns the first sector of the volume on the underlying device.
func (v *Volume) Start() uint64 {
	return v.start
}

// validCluster reports whether c names a cluster inside the data region.
// Cluster numbers start at 2.
func (v *Volume) validCluster(c uint32) bool {
	return c >= 2 && c < v.clusters+2
}

// clusterLBA returns the first sector of a data cluster.
func (v *Volume) clusterLBA(c uint32) uint64 {
	return v.dataStart + uint64(c-2)*uint64(v.secPerClus)
}

// readCluster reads one whole cluster. len(p) must equal ClusterSize.
func (v *Volume) readCluster(c uint32, p []byte) error {
	if !v.validCluster(c) {
		return ErrCorrupt
	}
	return v.dev.ReadSectors(v.clusterLBA(c), p)
}

// writeCluster writes one whole cluster. len(p) must equal ClusterSize.
func (v *Volume) writeCluster(c uint32, p []byte) error {
	if !v.validCluster(c) {
		return ErrCorrupt
	}
	return v.dev.WriteSectors(v.clusterLBA(c), p)
}

// readSector and writeSector address single sectors relative to the whole
// device, not the volume start; callers pass absolute LBAs.
func (v *Volume) readSector(lba uint64, p []byte) error {
	return v.dev.ReadSectors(lba, p)
}

func (v *Volume) writeSector(lba uint64, p []byte) error {
	return v.dev.WriteSectors(lba, p)
}
