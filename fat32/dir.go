// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"strings"

	"github.com/golang/glog"
)

// ListDir walks the directory starting at dirCluster and calls fn for every
// decoded entry. Long-filename fragments are accumulated and attached to the
// short-name entry that follows them; deleted slots and the volume label are
// skipped. fn returns false to stop the walk early.
func (v *Volume) ListDir(dirCluster uint32, fn func(DirEntry) bool) error {
	buf := make([]byte, v.ClusterSize())
	var lfn lfnBuffer

	c := dirCluster
	for i := uint32(0); i < v.clusters; i++ {
		if err := v.readCluster(c, buf); err != nil {
			return err
		}

		for off := 0; off < len(buf); off += slotSize {
			slot := buf[off : off+slotSize]
			switch {
			case slot[0] == charLastFree:
				return nil
			case slot[0] == charFree:
				lfn.reset()
			case slot[slotAttr] == attrLongname:
				lfn.add(slot)
			case slot[slotAttr]&attrVolumeID != 0:
				lfn.reset()
			default:
				sector := v.clusterLBA(c) + uint64(off)/uint64(v.bytesPerSec)
				e := decodeSlot(slot, sector, off%int(v.bytesPerSec), &lfn)
				lfn.reset()
				if !fn(e) {
					return nil
				}
			}
		}

		next, err := v.readFAT(c)
		if err != nil {
			return err
		}
		if isEOC(next) {
			return nil
		}
		c = next
	}
	return ErrCorrupt
}

// FindEntry returns the first entry in the directory whose name matches,
// compared case-insensitively. It returns ErrNotFound when nothing matches.
func (v *Volume) FindEntry(dirCluster uint32, name string) (DirEntry, error) {
	var found DirEntry
	ok := false
	err := v.ListDir(dirCluster, func(e DirEntry) bool {
		if strings.EqualFold(e.Name, name) {
			found = e
			ok = true
			return false
		}
		return true
	})
	if err != nil {
		return DirEntry{}, err
	}
	if !ok {
		return DirEntry{}, ErrNotFound
	}
	return found, nil
}

// CreateFile appends a zero-length file entry to the directory. The name is
// stored as an 8.3 short name; no long-filename fragments are generated, so
// names that do not fit are uppercased and truncated.
func (v *Volume) CreateFile(dirCluster uint32, name string) (DirEntry, error) {
	return v.createEntry(dirCluster, name, attrArchive, 0, 0)
}

// CreateDir creates a subdirectory: one zero-filled cluster is allocated and
// seeded with the "." and ".." entries before the new entry is linked into
// the parent.
func (v *Volume) CreateDir(dirCluster uint32, name string) (DirEntry, error) {
	c, err := v.allocCluster(0)
	if err != nil {
		return DirEntry{}, err
	}

	buf := make([]byte, v.ClusterSize())
	var dot, dotdot [11]byte
	copy(dot[:], ".          ")
	copy(dotdot[:], "..         ")
	parent := dirCluster
	if parent == v.rootCluster {
		// ".." in a child of the root names cluster 0 by convention.
		parent = 0
	}
	encodeSlot(buf[0:slotSize], dot, attrDirectory, c, 0)
	encodeSlot(buf[slotSize:2*slotSize], dotdot, attrDirectory, parent, 0)
	if err := v.writeCluster(c, buf); err != nil {
		return DirEntry{}, err
	}

	e, err := v.createEntry(dirCluster, name, attrDirectory, c, 0)
	if err != nil {
		// The directory cluster is already allocated; release it rather
		// than leak it.
		v.writeFAT(c, freeMarker)
		return DirEntry{}, err
	}
	return e, nil
}

// createEntry writes a new short-name slot into the first free or deleted
// slot found while walking the directory's cluster chain. When the chain has
// no free slot, it is extended with a freshly allocated, zero-filled cluster.
func (v *Volume) createEntry(dirCluster uint32, name string, attr uint8, firstCluster, size uint32) (DirEntry, error) {
	field, err := make83(name)
	if err != nil {
		return DirEntry{}, err
	}

	buf := make([]byte, v.ClusterSize())
	c := dirCluster
	for i := uint32(0); i < v.clusters; i++ {
		if err := v.readCluster(c, buf); err != nil {
			return DirEntry{}, err
		}

		for off := 0; off < len(buf); off += slotSize {
			if buf[off] != charLastFree && buf[off] != charFree {
				continue
			}
			slot := buf[off : off+slotSize]
			encodeSlot(slot, field, attr, firstCluster, size)

			secIdx := off / int(v.bytesPerSec)
			sector := v.clusterLBA(c) + uint64(secIdx)
			if err := v.writeSector(sector, buf[secIdx*int(v.bytesPerSec):(secIdx+1)*int(v.bytesPerSec)]); err != nil {
				return DirEntry{}, err
			}
			if glog.V(2) {
				glog.Infof("fat32: created entry %q at sector %v offset %v", name, sector, off%int(v.bytesPerSec))
			}
			return DirEntry{
				Name:    decodeShortName(slot),
				Dir:     attr&attrDirectory != 0,
				Size:    size,
				Cluster: firstCluster,
				sector:  sector,
				offset:  off % int(v.bytesPerSec),
			}, nil
		}

		next, err := v.readFAT(c)
		if err != nil {
			return DirEntry{}, err
		}
		if !isEOC(next) {
			c = next
			continue
		}

		// No free slot anywhere in the chain; grow the directory.
		grown, err := v.allocCluster(c)
		if err != nil {
			return DirEntry{}, err
		}
		for j := range buf {
			buf[j] = 0
		}
		if err := v.writeCluster(grown, buf); err != nil {
			return DirEntry{}, err
		}
		c = grown
	}
	return DirEntry{}, ErrCorrupt
}

// DeleteEntry frees the entry's cluster chain and marks its short-name slot
// deleted. The rest of the slot is left intact, so the slot can be reused by
// a later create.
func (v *Volume) DeleteEntry(entry DirEntry) error {
	if entry.Cluster >= 2 {
		if err := v.freeChain(entry.Cluster); err != nil {
			return err
		}
	}

	sector := make([]byte, v.bytesPerSec)
	if err := v.readSector(entry.sector, sector); err != nil {
		return err
	}
	sector[entry.offset] = charFree
	return v.writeSector(entry.sector, sector)
}
