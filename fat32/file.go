// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"encoding/binary"

	"github.com/golang/glog"
)

// ReadFile copies up to min(len(p), entry.Size) bytes of the file's contents
// into p and returns the number of bytes copied. If the cluster chain ends
// before the recorded size is reached, the shortfall is reflected in the
// returned count; no error is raised for the inconsistency.
func (v *Volume) ReadFile(entry DirEntry, p []byte) (int, error) {
	if entry.Dir {
		return 0, ErrIsDir
	}

	limit := len(p)
	if uint64(limit) > uint64(entry.Size) {
		limit = int(entry.Size)
	}
	c := entry.Cluster
	if limit == 0 || !v.validCluster(c) {
		return 0, nil
	}

	buf := make([]byte, v.ClusterSize())
	n := 0
	for i := uint32(0); i < v.clusters; i++ {
		if err := v.readCluster(c, buf); err != nil {
			return n, err
		}
		n += copy(p[n:limit], buf)
		if n == limit {
			return n, nil
		}

		next, err := v.readFAT(c)
		if err != nil {
			return n, err
		}
		if isEOC(next) || !v.validCluster(next) {
			return n, nil
		}
		c = next
	}
	return n, ErrCorrupt
}

// ReadAll reads the whole file into a freshly allocated buffer.
func (v *Volume) ReadAll(entry DirEntry) ([]byte, error) {
	p := make([]byte, entry.Size)
	n, err := v.ReadFile(entry, p)
	return p[:n], err
}

// WriteFile replaces the file's contents with data: the existing cluster
// chain is freed, a fresh chain sized for data is allocated and filled one
// cluster at a time, and the entry's on-disk cluster and size fields are
// patched in place. Directories are rejected.
func (v *Volume) WriteFile(entry DirEntry, data []byte) error {
	if entry.Dir {
		return ErrIsDir
	}

	if entry.Cluster >= 2 {
		if err := v.freeChain(entry.Cluster); err != nil {
			return err
		}
	}

	cs := v.ClusterSize()
	buf := make([]byte, cs)
	var first, prev uint32
	for off := 0; off < len(data); off += cs {
		c, err := v.allocCluster(prev)
		if err != nil {
			return err
		}
		n := copy(buf, data[off:])
		for i := n; i < cs; i++ {
			buf[i] = 0
		}
		if err := v.writeCluster(c, buf); err != nil {
			return err
		}
		if first == 0 {
			first = c
		}
		prev = c
	}

	if glog.V(2) {
		glog.Infof("fat32: wrote %v bytes starting at cluster %v", len(data), first)
	}

	// Patch the short-name slot in place using its stored location.
	sector := make([]byte, v.bytesPerSec)
	if err := v.readSector(entry.sector, sector); err != nil {
		return err
	}
	slot := sector[entry.offset:]
	binary.LittleEndian.PutUint16(slot[slotClusterHi:], uint16(first>>16))
	binary.LittleEndian.PutUint16(slot[slotClusterLo:], uint16(first))
	binary.LittleEndian.PutUint32(slot[slotSize32:], uint32(len(data)))
	return v.writeSector(entry.sector, sector)
}
