// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package mbr reads the legacy Master Boot Record partition table from the
// first sector of a disk.
package mbr

import (
	"encoding/binary"
	"errors"

	"github.com/omarPVP123131/Portix-OS-sub000/block"
)

const (
	// NumPartitions is the number of primary partition entries in an MBR.
	NumPartitions = 4

	tableOffset     = 0x1BE
	entrySize       = 16
	signatureOffset = 510
)

// ErrNotMBR indicates that the first sector does not carry the 0x55AA boot
// signature.
var ErrNotMBR = errors.New("mbr: missing boot signature")

// PartitionType is the single-byte type tag of a partition entry.
type PartitionType uint8

// Partition types recognized as FAT32 candidates.
const (
	TypeFAT32CHS PartitionType = 0x0B
	TypeFAT32LBA PartitionType = 0x0C
	TypeFAT16LBA PartitionType = 0x0E
)

// IsFAT reports whether the type tag marks a partition that may hold a FAT32
// filesystem.
func (t PartitionType) IsFAT() bool {
	return t == TypeFAT32CHS || t == TypeFAT32LBA || t == TypeFAT16LBA
}

// Partition is one decoded partition table entry.
type Partition struct {
	Status     uint8
	Type       PartitionType
	StartLBA   uint32
	NumSectors uint32
}

// IsEmpty reports whether the entry describes no partition.
func (p Partition) IsEmpty() bool {
	return p.Type == 0 || p.NumSectors == 0
}

// MBR holds the decoded partition table.
type MBR struct {
	Partitions [NumPartitions]Partition
}

// Parse decodes the partition table from the raw contents of sector zero.
func Parse(sector []byte) (*MBR, error) {
	if len(sector) < 512 {
		return nil, errors.New("mbr: sector is too small")
	}
	if sector[signatureOffset] != 0x55 || sector[signatureOffset+1] != 0xAA {
		return nil, ErrNotMBR
	}

	m := &MBR{}
	for i := range m.Partitions {
		e := sector[tableOffset+i*entrySize:]
		m.Partitions[i] = Partition{
			Status:     e[0],
			Type:       PartitionType(e[4]),
			StartLBA:   binary.LittleEndian.Uint32(e[8:]),
			NumSectors: binary.LittleEndian.Uint32(e[12:]),
		}
	}
	return m, nil
}

// Read loads sector zero from dev and decodes the partition table.
func Read(dev block.Device) (*MBR, error) {
	sector := make([]byte, dev.SectorSize())
	if err := dev.ReadSectors(0, sector); err != nil {
		return nil, err
	}
	return Parse(sector)
}

// FirstFAT returns the first non-empty partition whose type tag marks it as a
// FAT32 candidate.
func (m *MBR) FirstFAT() (Partition, bool) {
	for _, p := range m.Partitions {
		if !p.IsEmpty() && p.Type.IsFAT() {
			return p, true
		}
	}
	return Partition{}, false
}
