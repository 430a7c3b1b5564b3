// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

// Directory records are fixed 32-byte slots.
const slotSize = 32

// Special values of a slot's first byte.
const (
	charLastFree = 0x00 // this slot and all following slots are unused
	charFree     = 0xE5 // this slot is deleted
	charE5       = 0x05 // escapes a real leading 0xE5 in a short name
)

// Attribute bits at slot offset 11.
const (
	attrReadOnly  = 0x01
	attrHidden    = 0x02
	attrSystem    = 0x04
	attrVolumeID  = 0x08
	attrDirectory = 0x10
	attrArchive   = 0x20
	attrLongname  = attrReadOnly | attrHidden | attrSystem | attrVolumeID
)

// Byte offsets within a short-name slot.
const (
	slotAttr      = 11
	slotClusterHi = 20
	slotClusterLo = 26
	slotSize32    = 28
)

// Long-filename fragment layout: the ordinal byte, then 13 UTF-16 code units
// spread over three discontiguous runs.
const (
	lfnOrdinalLast = 0x40 // set on the fragment holding the end of the name
	lfnOrdinalMask = 0x1F
	lfnUnits       = 13
	maxLfnLength   = 255
)

var lfnRuns = []struct{ off, units int }{
	{1, 5},
	{14, 6},
	{28, 2},
}

// DirEntry is the in-memory form of one directory entry. It records the
// exact disk location of its short-name slot, so later writes can patch the
// size and cluster fields in place.
type DirEntry struct {
	Name    string
	Dir     bool
	Size    uint32
	Cluster uint32

	sector uint64 // absolute LBA of the sector holding the short-name slot
	offset int    // byte offset of the slot within that sector
}

// lfnBuffer accumulates long-filename fragments until the short-name slot
// that owns them arrives.
type lfnBuffer struct {
	units  [maxLfnLength]uint16
	length int
	active bool
}

func (l *lfnBuffer) reset() {
	l.length = 0
	l.active = false
}

// add merges one fragment slot into the buffer. Fragments may arrive in any
// order; the ordinal field places each 13-unit piece.
func (l *lfnBuffer) add(slot []byte) {
	ord := int(slot[0] & lfnOrdinalMask)
	if ord == 0 || (ord-1)*lfnUnits >= maxLfnLength {
		l.reset()
		return
	}

	pos := (ord - 1) * lfnUnits
	for _, run := range lfnRuns {
		for i := 0; i < run.units && pos < maxLfnLength; i++ {
			l.units[pos] = binary.LittleEndian.Uint16(slot[run.off+2*i:])
			pos++
		}
	}
	if slot[0]&lfnOrdinalLast != 0 {
		l.length = pos
	}
	l.active = true
}

// name decodes the accumulated UTF-16 units. Names are terminated by a zero
// unit and padded with 0xFFFF within their final fragment.
func (l *lfnBuffer) name() string {
	end := l.length
	if end == 0 {
		end = maxLfnLength
	}
	units := l.units[:end]
	for i, u := range units {
		if u == 0x0000 || u == 0xFFFF {
			units = units[:i]
			break
		}
	}
	return string(utf16.Decode(units))
}

// decodeShortName renders the padded 8+3 name stored in a slot as
// "BASE.EXT" with the padding trimmed.
func decodeShortName(slot []byte) string {
	base := strings.TrimRight(string(slot[0:8]), " ")
	ext := strings.TrimRight(string(slot[8:11]), " ")
	if len(base) > 0 && base[0] == charE5 {
		b := []byte(base)
		b[0] = charFree
		base = string(b)
	}
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// make83 synthesizes the padded 8+3 name field for a new entry. The name is
// uppercased and truncated to fit; no long-filename fragments are generated.
func make83(name string) ([11]byte, error) {
	var field [11]byte
	for i := range field {
		field[i] = ' '
	}

	if name == "" || name == "." || name == ".." {
		return field, ErrInvalidPath
	}
	if len(name) > maxLfnLength {
		return field, ErrNameTooLong
	}

	base, ext := name, ""
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		base, ext = name[:i], name[i+1:]
	}

	put := func(dst []byte, s string) {
		for i := 0; i < len(dst) && i < len(s); i++ {
			c := s[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			if c < 0x20 || strings.IndexByte(`"*+,./:;<=>?[\]|`, c) >= 0 {
				c = '_'
			}
			dst[i] = c
		}
	}
	put(field[0:8], base)
	put(field[8:11], ext)

	if field[0] == charFree {
		field[0] = charE5
	}
	return field, nil
}

// decodeSlot builds a DirEntry from a short-name slot. The caller supplies
// the slot's disk location and the long-filename buffer collected from the
// preceding fragments.
func decodeSlot(slot []byte, sector uint64, offset int, lfn *lfnBuffer) DirEntry {
	e := DirEntry{
		Dir:  slot[slotAttr]&attrDirectory != 0,
		Size: binary.LittleEndian.Uint32(slot[slotSize32:]),
		Cluster: uint32(binary.LittleEndian.Uint16(slot[slotClusterHi:]))<<16 |
			uint32(binary.LittleEndian.Uint16(slot[slotClusterLo:])),
		sector: sector,
		offset: offset,
	}
	if lfn.active {
		e.Name = lfn.name()
	} else {
		e.Name = decodeShortName(slot)
	}
	return e
}

// encodeSlot fills a short-name slot for a newly created entry.
func encodeSlot(slot []byte, name [11]byte, attr uint8, cluster, size uint32) {
	for i := range slot[:slotSize] {
		slot[i] = 0
	}
	copy(slot[0:11], name[:])
	slot[slotAttr] = attr
	binary.LittleEndian.PutUint16(slot[slotClusterHi:], uint16(cluster>>16))
	binary.LittleEndian.PutUint16(slot[slotClusterLo:], uint16(cluster))
	binary.LittleEndian.PutUint32(slot[slotSize32:], size)
}
