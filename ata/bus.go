// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ata

import (
	"strings"

	"github.com/golang/glog"
)

// Slot identifies one of the four drive positions across the two legacy
// channels.
type Slot int

// The four drive slots.
const (
	PrimaryMaster Slot = iota
	PrimarySlave
	SecondaryMaster
	SecondarySlave
	numSlots
)

func (s Slot) String() string {
	switch s {
	case PrimaryMaster:
		return "primary master"
	case PrimarySlave:
		return "primary slave"
	case SecondaryMaster:
		return "secondary master"
	case SecondarySlave:
		return "secondary slave"
	}
	return "invalid slot"
}

func (s Slot) channel() int {
	return int(s) >> 1
}

func (s Slot) drive() DriveSlot {
	return DriveSlot(s & 1)
}

// DriveInfo summarizes the IDENTIFY data of one detected device.
type DriveInfo struct {
	Slot    Slot
	ATAPI   bool
	LBA48   bool
	Sectors uint64

	raw [wordsPerSector]uint16
}

// identifyString decodes an ASCII field from the IDENTIFY block. Each word
// holds two characters with the first character in the high byte. Fields are
// space padded.
func identifyString(words []uint16, first, last int) string {
	b := make([]byte, 0, 2*(last-first+1))
	for _, w := range words[first : last+1] {
		b = append(b, uint8(w>>8), uint8(w))
	}
	return strings.TrimSpace(string(b))
}

// ModelString returns the device's model number field.
func (i *DriveInfo) ModelString() string {
	return identifyString(i.raw[:], 27, 46)
}

// SerialString returns the device's serial number field.
func (i *DriveInfo) SerialString() string {
	return identifyString(i.raw[:], 10, 19)
}

// FirmwareString returns the device's firmware revision field.
func (i *DriveInfo) FirmwareString() string {
	return identifyString(i.raw[:], 23, 26)
}

// parseIdentify extracts the fields the driver cares about from a raw
// IDENTIFY block.
func parseIdentify(slot Slot, data [wordsPerSector]uint16, atapi bool) *DriveInfo {
	info := &DriveInfo{
		Slot:  slot,
		ATAPI: atapi || data[0]&(1<<15) != 0,
		LBA48: data[83]&(1<<10) != 0,
		raw:   data,
	}

	if info.LBA48 {
		// Words 100-103 hold the 48-bit sector count.
		info.Sectors = uint64(data[100]) | uint64(data[101])<<16 |
			uint64(data[102])<<32 | uint64(data[103])<<48
	} else {
		// Words 60-61 hold the 28-bit sector count.
		info.Sectors = uint64(data[60]) | uint64(data[61])<<16
	}
	return info
}

// Bus is the registry of drives detected across both channels.
type Bus struct {
	channels [2]*Channel
	drives   [numSlots]*DriveInfo
}

// NewBus returns a Bus over the given channels. Either channel may be nil,
// in which case its two slots always read as empty.
func NewBus(primary, secondary *Channel) *Bus {
	return &Bus{channels: [2]*Channel{primary, secondary}}
}

// Scan identifies all four slots and returns the devices that responded.
// Slots that fail to identify are treated as empty. The results are retained,
// so later Info and Open calls do not touch the hardware again.
func (b *Bus) Scan() []*DriveInfo {
	var found []*DriveInfo
	for slot := PrimaryMaster; slot < numSlots; slot++ {
		c := b.channels[slot.channel()]
		if c == nil {
			continue
		}
		data, atapi, err := c.identify(slot.drive())
		if err == ErrNoDrive {
			continue
		}
		if err != nil {
			glog.Warningf("ata: %v: identify failed: %v", slot, err)
			continue
		}
		info := parseIdentify(slot, data, atapi)
		if glog.V(1) {
			glog.Infof("ata: %v: model %q, %v sectors, lba48=%v, atapi=%v",
				slot, info.ModelString(), info.Sectors, info.LBA48, info.ATAPI)
		}
		b.drives[slot] = info
		found = append(found, info)
	}
	return found
}

// Info returns the retained identify data for the given slot, or nil if the
// last Scan found nothing there.
func (b *Bus) Info(slot Slot) *DriveInfo {
	if slot < 0 || slot >= numSlots {
		return nil
	}
	return b.drives[slot]
}

// Drive returns a Drive for a previously identified device without
// re-issuing IDENTIFY. ATAPI devices and devices reporting zero sectors
// cannot be opened.
func (b *Bus) Drive(info *DriveInfo) (*Drive, error) {
	c := b.channels[info.Slot.channel()]
	if c == nil || info.ATAPI || info.Sectors == 0 {
		return nil, ErrNoDrive
	}
	return &Drive{
		channel: c,
		slot:    info.Slot.drive(),
		lba48:   info.LBA48,
		sectors: info.Sectors,
	}, nil
}

// Open returns a Drive for the given slot, using the identify data retained
// by the last Scan.
func (b *Bus) Open(slot Slot) (*Drive, error) {
	info := b.Info(slot)
	if info == nil {
		return nil, ErrNoDrive
	}
	return b.Drive(info)
}
