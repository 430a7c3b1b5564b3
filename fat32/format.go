// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/omarPVP123131/Portix-OS-sub000/block"
)

// FSInfo sector layout.
const (
	fsInfoLeadSig   = 0x41615252 // "RRaA"
	fsInfoStructSig = 0x61417272 // "rrAa"
	fsInfoFreeCount = 488
	fsInfoNextFree  = 492
)

const formatReserved = 32

// formatSecPerClus picks the allocation unit for a volume of the given size,
// following the conventional size table.
func formatSecPerClus(totalSecs uint32) uint32 {
	switch {
	case totalSecs < 532480: // < 260 MiB
		return 1
	case totalSecs < 16777216: // < 8 GiB
		return 8
	case totalSecs < 33554432: // < 16 GiB
		return 16
	case totalSecs < 67108864: // < 32 GiB
		return 32
	default:
		return 64
	}
}

// Format writes an empty FAT32 filesystem covering the whole device, laid
// out as an unpartitioned volume: boot record at sector 0 with a backup at
// sector 6, FSInfo at sector 1, two mirrored FATs, and an empty root
// directory at cluster 2.
func Format(dev block.Device, label string) error {
	if dev.SectorSize() != 512 {
		return errors.New("fat32: only 512-byte sectors are supported")
	}
	totalSecs := uint32(dev.NumSectors())
	if uint64(totalSecs) != dev.NumSectors() || totalSecs < 1024 {
		return errors.New("fat32: device size not formattable")
	}

	secPerClus := formatSecPerClus(totalSecs)
	const numFATs = 2
	// Sizing rule from the FAT specification: slightly overestimates the
	// FAT so the data region always fits.
	tmp1 := totalSecs - formatReserved
	tmp2 := (256*secPerClus + numFATs) / 2
	fatSize := (tmp1 + tmp2 - 1) / tmp2

	vbr := make([]byte, 512)
	vbr[0], vbr[1], vbr[2] = 0xEB, 0x58, 0x90
	copy(vbr[3:11], "PORTIX  ")
	binary.LittleEndian.PutUint16(vbr[brBytesPerSec:], 512)
	vbr[brSecPerClus] = uint8(secPerClus)
	binary.LittleEndian.PutUint16(vbr[brReserved:], formatReserved)
	vbr[brNumFATs] = numFATs
	vbr[brMedia] = 0xF8
	binary.LittleEndian.PutUint16(vbr[24:], 63)  // sectors per track
	binary.LittleEndian.PutUint16(vbr[26:], 255) // heads
	binary.LittleEndian.PutUint32(vbr[brTotalSec32:], totalSecs)
	binary.LittleEndian.PutUint32(vbr[brFATSize32:], fatSize)
	binary.LittleEndian.PutUint32(vbr[brRootCluster:], 2)
	binary.LittleEndian.PutUint16(vbr[brFSInfo:], 1)
	binary.LittleEndian.PutUint16(vbr[brBackupBoot:], 6)
	vbr[64] = 0x80 // drive number
	vbr[66] = 0x29 // extended boot signature
	binary.LittleEndian.PutUint32(vbr[67:], uint32(time.Now().Unix()))
	copy(vbr[71:82], "           ")
	copy(vbr[71:82], label)
	copy(vbr[brFSType:], fsTypeFAT32)
	vbr[brSignature] = 0x55
	vbr[brSignature+1] = 0xAA

	for _, lba := range []uint64{0, 6} {
		if err := dev.WriteSectors(lba, vbr); err != nil {
			return err
		}
	}

	clusters := (totalSecs - formatReserved - numFATs*fatSize) / secPerClus

	fsinfo := make([]byte, 512)
	binary.LittleEndian.PutUint32(fsinfo[0:], fsInfoLeadSig)
	binary.LittleEndian.PutUint32(fsinfo[484:], fsInfoStructSig)
	binary.LittleEndian.PutUint32(fsinfo[fsInfoFreeCount:], clusters-1)
	binary.LittleEndian.PutUint32(fsinfo[fsInfoNextFree:], 3)
	fsinfo[510] = 0x55
	fsinfo[511] = 0xAA
	for _, lba := range []uint64{1, 7} {
		if err := dev.WriteSectors(lba, fsinfo); err != nil {
			return err
		}
	}

	// Zero both FAT copies in bounded chunks.
	zero := make([]byte, 128*512)
	for lba, left := uint64(formatReserved), uint64(numFATs)*uint64(fatSize); left > 0; {
		n := left
		if n > 128 {
			n = 128
		}
		if err := dev.WriteSectors(lba, zero[:int(n)*512]); err != nil {
			return err
		}
		lba += n
		left -= n
	}

	// Seed the FAT: media descriptor, reserved entry, and the root
	// directory's end-of-chain marker. Mirrored into the second copy.
	head := make([]byte, 512)
	binary.LittleEndian.PutUint32(head[0:], 0x0FFFFFF8)
	binary.LittleEndian.PutUint32(head[4:], eocMarker)
	binary.LittleEndian.PutUint32(head[8:], eocMarker)
	for i := uint32(0); i < numFATs; i++ {
		if err := dev.WriteSectors(uint64(formatReserved)+uint64(i)*uint64(fatSize), head); err != nil {
			return err
		}
	}

	// Zero the root directory cluster.
	rootLBA := uint64(formatReserved) + numFATs*uint64(fatSize)
	if err := dev.WriteSectors(rootLBA, zero[:int(secPerClus)*512]); err != nil {
		return err
	}
	return dev.Flush()
}
