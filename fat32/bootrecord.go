// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"bytes"
	"encoding/binary"
)

// Byte offsets of the BPB fields consumed by the driver. The fields are
// decoded individually rather than through a struct overlay, so no alignment
// or endianness assumptions leak in.
const (
	brBytesPerSec = 11 // uint16
	brSecPerClus  = 13 // uint8
	brReserved    = 14 // uint16
	brNumFATs     = 16 // uint8
	brTotalSec16  = 19 // uint16, zero on FAT32
	brMedia       = 21 // uint8
	brTotalSec32  = 32 // uint32
	brFATSize32   = 36 // uint32
	brRootCluster = 44 // uint32
	brFSInfo      = 48 // uint16
	brBackupBoot  = 50 // uint16
	brFSType      = 82 // 8 bytes, "FAT32   "
	brSignature   = 510
)

var fsTypeFAT32 = []byte("FAT32   ")

// bootRecord holds the parsed BPB fields.
type bootRecord struct {
	bytesPerSec uint32
	secPerClus  uint32
	reserved    uint32
	numFATs     uint32
	totalSecs   uint32
	fatSize     uint32 // sectors per FAT copy
	rootCluster uint32
}

// parseBootRecord validates and decodes a volume boot record. Any mismatch,
// from a missing boot signature to nonsensical geometry, reports ErrNotFat32.
func parseBootRecord(sector []byte) (*bootRecord, error) {
	if len(sector) < 512 {
		return nil, ErrNotFat32
	}
	if sector[brSignature] != 0x55 || sector[brSignature+1] != 0xAA {
		return nil, ErrNotFat32
	}
	if !bytes.Equal(sector[brFSType:brFSType+8], fsTypeFAT32) {
		return nil, ErrNotFat32
	}

	br := &bootRecord{
		bytesPerSec: uint32(binary.LittleEndian.Uint16(sector[brBytesPerSec:])),
		secPerClus:  uint32(sector[brSecPerClus]),
		reserved:    uint32(binary.LittleEndian.Uint16(sector[brReserved:])),
		numFATs:     uint32(sector[brNumFATs]),
		totalSecs:   binary.LittleEndian.Uint32(sector[brTotalSec32:]),
		fatSize:     binary.LittleEndian.Uint32(sector[brFATSize32:]),
		rootCluster: binary.LittleEndian.Uint32(sector[brRootCluster:]),
	}
	if br.totalSecs == 0 {
		br.totalSecs = uint32(binary.LittleEndian.Uint16(sector[brTotalSec16:]))
	}

	switch {
	case br.bytesPerSec != 512:
		return nil, ErrNotFat32
	case br.secPerClus == 0 || br.secPerClus&(br.secPerClus-1) != 0:
		return nil, ErrNotFat32
	case br.reserved == 0 || br.numFATs == 0:
		return nil, ErrNotFat32
	case br.fatSize == 0 || br.rootCluster < 2:
		return nil, ErrNotFat32
	case br.totalSecs <= br.reserved+br.numFATs*br.fatSize:
		return nil, ErrNotFat32
	}
	return br, nil
}
