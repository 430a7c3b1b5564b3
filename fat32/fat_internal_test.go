// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/omarPVP123131/Portix-OS-sub000/block/ram"
)

func newTestVolume(t *testing.T, numSectors int) (*Volume, ram.Device) {
	t.Helper()
	dev := ram.New(numSectors)
	if err := Format(dev, "TEST"); err != nil {
		t.Fatal(err)
	}
	v, err := Mount(dev)
	if err != nil {
		t.Fatal(err)
	}
	return v, dev
}

func TestAllocFreeInvariants(t *testing.T) {
	v, _ := newTestVolume(t, 4096)

	// Find the first free cluster by hand; allocCluster must claim exactly
	// that one.
	var firstFree uint32
	for c := uint32(2); c < v.clusters+2; c++ {
		value, err := v.readFAT(c)
		if err != nil {
			t.Fatal(err)
		}
		if value == freeMarker {
			firstFree = c
			break
		}
	}

	c1, err := v.allocCluster(0)
	if err != nil {
		t.Fatal(err)
	}
	if c1 != firstFree {
		t.Errorf("allocCluster(0) = %v; want first free cluster %v", c1, firstFree)
	}
	if value, _ := v.readFAT(c1); !isEOC(value) {
		t.Errorf("readFAT(%v) = %#x; want end-of-chain", c1, value)
	}

	c2, err := v.allocCluster(c1)
	if err != nil {
		t.Fatal(err)
	}
	if value, _ := v.readFAT(c1); value != c2 {
		t.Errorf("readFAT(%v) = %v; want link to %v", c1, value, c2)
	}
	c3, err := v.allocCluster(c2)
	if err != nil {
		t.Fatal(err)
	}

	if err := v.freeChain(c1); err != nil {
		t.Fatal(err)
	}
	for _, c := range []uint32{c1, c2, c3} {
		if value, _ := v.readFAT(c); value != freeMarker {
			t.Errorf("readFAT(%v) = %#x after freeChain; want free", c, value)
		}
	}

	// The linear scan must now hand the lowest freed cluster back out.
	again, err := v.allocCluster(0)
	if err != nil {
		t.Fatal(err)
	}
	if again != c1 {
		t.Errorf("allocCluster(0) after free = %v; want %v", again, c1)
	}
}

func TestWriteFATPreservesReservedBits(t *testing.T) {
	v, dev := newTestVolume(t, 4096)

	c, err := v.allocCluster(0)
	if err != nil {
		t.Fatal(err)
	}

	// Plant reserved top bits directly in the first FAT copy.
	lba, off := v.fatLocation(c)
	raw := binary.LittleEndian.Uint32(dev[lba*512+uint64(off):])
	binary.LittleEndian.PutUint32(dev[lba*512+uint64(off):], raw|0xA0000000)

	if err := v.writeFAT(c, 7); err != nil {
		t.Fatal(err)
	}
	raw = binary.LittleEndian.Uint32(dev[lba*512+uint64(off):])
	if raw != 0xA0000000|7 {
		t.Errorf("FAT entry = %#x; want reserved bits preserved with value 7", raw)
	}
	if value, _ := v.readFAT(c); value != 7 {
		t.Errorf("readFAT() = %v; want the masked value 7", value)
	}
}

func TestWriteFATMirrors(t *testing.T) {
	v, dev := newTestVolume(t, 4096)

	c, err := v.allocCluster(0)
	if err != nil {
		t.Fatal(err)
	}
	lba, off := v.fatLocation(c)
	mirror := lba + uint64(v.fatSize)

	first := binary.LittleEndian.Uint32(dev[lba*512+uint64(off):])
	second := binary.LittleEndian.Uint32(dev[mirror*512+uint64(off):])
	if first != second {
		t.Errorf("FAT copies disagree after write: %#x vs %#x", first, second)
	}
}

// lfnFragment builds one long-filename slot holding 13 UTF-16 units.
func lfnFragment(ord int, last bool, units []uint16) []byte {
	slot := make([]byte, slotSize)
	slot[0] = uint8(ord)
	if last {
		slot[0] |= lfnOrdinalLast
	}
	slot[slotAttr] = attrLongname

	// Units beyond the name are a zero terminator followed by 0xFFFF fill.
	padded := make([]uint16, lfnUnits)
	for i := range padded {
		switch {
		case i < len(units):
			padded[i] = units[i]
		case i == len(units):
			padded[i] = 0x0000
		default:
			padded[i] = 0xFFFF
		}
	}

	pos := 0
	for _, run := range lfnRuns {
		for i := 0; i < run.units; i++ {
			binary.LittleEndian.PutUint16(slot[run.off+2*i:], padded[pos])
			pos++
		}
	}
	return slot
}

func TestLFNBufferTwoFragments(t *testing.T) {
	// 26 UTF-16 units, so the name needs exactly two fragments.
	const name = "Long File Name Example.txt"
	units := utf16.Encode([]rune(name))
	if len(units) != 26 {
		t.Fatalf("test name is %d units; want 26", len(units))
	}

	// On disk the highest ordinal comes first.
	var lfn lfnBuffer
	lfn.add(lfnFragment(2, true, units[13:]))
	lfn.add(lfnFragment(1, false, units[:13]))

	if got := lfn.name(); got != name {
		t.Errorf("lfn.name() = %q; want %q", got, name)
	}
}

func TestListDirDecodesLongNames(t *testing.T) {
	v, dev := newTestVolume(t, 4096)

	const name = "Long File Name Example.txt"
	units := utf16.Encode([]rune(name))

	// Craft the root directory by hand: two fragments, highest ordinal
	// first, then the owning short-name slot.
	root := v.clusterLBA(v.rootCluster) * 512
	copy(dev[root:], lfnFragment(2, true, units[13:]))
	copy(dev[root+slotSize:], lfnFragment(1, false, units[:13]))

	field, err := make83("LONGFI~1.TXT")
	if err != nil {
		t.Fatal(err)
	}
	short := make([]byte, slotSize)
	encodeSlot(short, field, attrArchive, 0, 0)
	copy(dev[root+2*slotSize:], short)

	var got []string
	err = v.ListDir(v.rootCluster, func(e DirEntry) bool {
		got = append(got, e.Name)
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != name {
		t.Errorf("ListDir() yielded %q; want [%q]", got, name)
	}
}

func TestMake83(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.txt", "A       TXT"},
		{"README", "README     "},
		{"verylongname.extension", "VERYLONGEXT"},
		{"no ext", "NO EXT     "},
		{"x.c", "X       C  "},
	}
	for _, tt := range tests {
		field, err := make83(tt.name)
		if err != nil {
			t.Errorf("make83(%q): %v", tt.name, err)
			continue
		}
		if got := string(field[:]); got != tt.want {
			t.Errorf("make83(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}

	if _, err := make83(""); err != ErrInvalidPath {
		t.Errorf("make83(\"\") = %v; want %v", err, ErrInvalidPath)
	}
}

func TestDecodeShortName(t *testing.T) {
	slot := make([]byte, slotSize)
	copy(slot, "HELLO   TXT")
	if got := decodeShortName(slot); got != "HELLO.TXT" {
		t.Errorf("decodeShortName() = %q; want %q", got, "HELLO.TXT")
	}

	copy(slot, "NOEXT      ")
	if got := decodeShortName(slot); got != "NOEXT" {
		t.Errorf("decodeShortName() = %q; want %q", got, "NOEXT")
	}
}
