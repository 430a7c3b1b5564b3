// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ata_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/omarPVP123131/Portix-OS-sub000/ata"
	"github.com/omarPVP123131/Portix-OS-sub000/ata/atatest"
)

// setup attaches a disk of the given size as the primary master and scans
// the bus.
func setup(t *testing.T, numSectors int) (*atatest.Controller, *ata.Bus) {
	t.Helper()
	ctrl := atatest.New(ata.PrimaryBase, ata.PrimaryControl)
	ctrl.Attach(0, atatest.NewDisk(numSectors))
	bus := ata.NewBus(ata.Primary(ctrl), nil)
	if found := bus.Scan(); len(found) != 1 {
		t.Fatalf("Scan() found %d drives; want 1", len(found))
	}
	return ctrl, bus
}

func TestScan(t *testing.T) {
	_, bus := setup(t, 1024)

	info := bus.Info(ata.PrimaryMaster)
	if info == nil {
		t.Fatal("Info(PrimaryMaster) = nil; want drive info")
	}
	if info.Slot != ata.PrimaryMaster {
		t.Errorf("info.Slot = %v; want %v", info.Slot, ata.PrimaryMaster)
	}
	if info.Sectors != 1024 {
		t.Errorf("info.Sectors = %v; want 1024", info.Sectors)
	}
	if info.ATAPI || info.LBA48 {
		t.Errorf("got ATAPI=%v, LBA48=%v; want false, false", info.ATAPI, info.LBA48)
	}
	if got, want := info.ModelString(), "ATATEST EMULATED DISK"; got != want {
		t.Errorf("info.ModelString() = %q; want %q", got, want)
	}
	if got, want := info.SerialString(), "0000000001"; got != want {
		t.Errorf("info.SerialString() = %q; want %q", got, want)
	}
	if got, want := info.FirmwareString(), "0.1"; got != want {
		t.Errorf("info.FirmwareString() = %q; want %q", got, want)
	}
}

func TestEmptySlot(t *testing.T) {
	_, bus := setup(t, 64)

	if info := bus.Info(ata.PrimarySlave); info != nil {
		t.Errorf("Info(PrimarySlave) = %v; want nil", info)
	}
	if _, err := bus.Open(ata.SecondaryMaster); err != ata.ErrNoDrive {
		t.Errorf("Open(SecondaryMaster) = %v; want %v", err, ata.ErrNoDrive)
	}
}

func TestATAPIRejected(t *testing.T) {
	ctrl := atatest.New(ata.SecondaryBase, ata.SecondaryControl)
	disk := atatest.NewDisk(64)
	disk.ATAPI = true
	ctrl.Attach(1, disk)
	bus := ata.NewBus(nil, ata.Secondary(ctrl))
	bus.Scan()

	info := bus.Info(ata.SecondarySlave)
	if info == nil {
		t.Fatal("Info(SecondarySlave) = nil; want drive info")
	}
	if !info.ATAPI {
		t.Error("info.ATAPI = false; want true")
	}
	if _, err := bus.Drive(info); err != ata.ErrNoDrive {
		t.Errorf("Drive() = %v; want %v", err, ata.ErrNoDrive)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	_, bus := setup(t, 1024)
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	want := make([]byte, 3*ata.SectorSize)
	for i := range want {
		want[i] = byte(i % 251)
	}
	if err := d.WriteSectors(5, want); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, len(want))
	if err := d.ReadSectors(5, got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("read back unexpected data (-want +got):\n%s", diff)
	}

	// Neighboring sectors must remain untouched.
	edge := make([]byte, ata.SectorSize)
	if err := d.ReadSectors(4, edge); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(edge, make([]byte, ata.SectorSize)) {
		t.Error("sector 4 was modified by a write to [5, 8)")
	}
}

func TestLargeTransferSplit(t *testing.T) {
	_, bus := setup(t, 1024)
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	// 300 sectors exceeds the 256-sector limit of a single command.
	want := make([]byte, 300*ata.SectorSize)
	for i := range want {
		want[i] = byte(i >> 8)
	}
	if err := d.WriteSectors(100, want); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, len(want))
	if err := d.ReadSectors(100, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Error("read back unexpected data after split transfer")
	}
}

func TestBadBufferTouchesNoHardware(t *testing.T) {
	ctrl, bus := setup(t, 64)
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	before := ctrl.Accesses
	if err := d.ReadSectors(0, make([]byte, 100)); err != ata.ErrBadBuffer {
		t.Errorf("ReadSectors() = %v; want %v", err, ata.ErrBadBuffer)
	}
	if err := d.WriteSectors(0, make([]byte, ata.SectorSize+1)); err != ata.ErrBadBuffer {
		t.Errorf("WriteSectors() = %v; want %v", err, ata.ErrBadBuffer)
	}
	if ctrl.Accesses != before {
		t.Errorf("rejected requests performed %d port accesses; want 0", ctrl.Accesses-before)
	}
}

func TestOutOfRangeTouchesNoHardware(t *testing.T) {
	ctrl, bus := setup(t, 64)
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	before := ctrl.Accesses
	if err := d.ReadSectors(63, make([]byte, 2*ata.SectorSize)); err != ata.ErrOutOfRange {
		t.Errorf("ReadSectors() = %v; want %v", err, ata.ErrOutOfRange)
	}
	if err := d.WriteSectors(64, make([]byte, ata.SectorSize)); err != ata.ErrOutOfRange {
		t.Errorf("WriteSectors() = %v; want %v", err, ata.ErrOutOfRange)
	}
	if ctrl.Accesses != before {
		t.Errorf("rejected requests performed %d port accesses; want 0", ctrl.Accesses-before)
	}
}

// commandRecorder captures every opcode written to the command register.
type commandRecorder struct {
	*atatest.Controller
	commands []byte
}

func (r *commandRecorder) Out8(port uint16, v uint8) {
	if port == ata.PrimaryBase+7 {
		r.commands = append(r.commands, v)
	}
	r.Controller.Out8(port, v)
}

func TestLBA48DriveUsesExtCommands(t *testing.T) {
	ctrl := atatest.New(ata.PrimaryBase, ata.PrimaryControl)
	disk := atatest.NewDisk(128)
	disk.LBA48 = true
	ctrl.Attach(0, disk)
	rec := &commandRecorder{Controller: ctrl}

	bus := ata.NewBus(ata.NewChannel(rec, ata.PrimaryBase, ata.PrimaryControl), nil)
	bus.Scan()
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	// A drive advertising 48-bit support gets the EXT opcodes for every
	// transfer, even at low addresses.
	rec.commands = nil
	if err := d.ReadSectors(10, make([]byte, ata.SectorSize)); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteSectors(10, make([]byte, ata.SectorSize)); err != nil {
		t.Fatal(err)
	}
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}

	want := []byte{0x24, 0x34, 0xEA, 0xEA}
	if diff := cmp.Diff(want, rec.commands); diff != "" {
		t.Errorf("commands issued (-want +got):\n%s", diff)
	}
}

func Test28BitDriveUsesPIOCommands(t *testing.T) {
	ctrl := atatest.New(ata.PrimaryBase, ata.PrimaryControl)
	ctrl.Attach(0, atatest.NewDisk(128))
	rec := &commandRecorder{Controller: ctrl}

	bus := ata.NewBus(ata.NewChannel(rec, ata.PrimaryBase, ata.PrimaryControl), nil)
	bus.Scan()
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	rec.commands = nil
	if err := d.ReadSectors(10, make([]byte, ata.SectorSize)); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteSectors(10, make([]byte, ata.SectorSize)); err != nil {
		t.Fatal(err)
	}

	want := []byte{0x20, 0x30, 0xE7}
	if diff := cmp.Diff(want, rec.commands); diff != "" {
		t.Errorf("commands issued (-want +got):\n%s", diff)
	}
}

func TestBusyStatusIgnoredUntilClear(t *testing.T) {
	ctrl, bus := setup(t, 64)
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	// While the busy bit is set the error and fault bits hold garbage;
	// polling must skip them rather than report a spurious failure.
	ctrl.BusyReads = 5
	want := make([]byte, 2*ata.SectorSize)
	for i := range want {
		want[i] = byte(i)
	}
	if err := d.WriteSectors(1, want); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, len(want))
	if err := d.ReadSectors(1, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Error("read back unexpected data after busy polling")
	}
}

func TestDeviceError(t *testing.T) {
	ctrl, bus := setup(t, 64)
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	broken := atatest.NewDisk(64)
	broken.CommandErr = 0x04
	ctrl.Attach(0, broken)

	err = d.ReadSectors(0, make([]byte, ata.SectorSize))
	var devErr *ata.DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("ReadSectors() = %v; want *ata.DeviceError", err)
	}
	if devErr.Code != 0x04 {
		t.Errorf("devErr.Code = %#02x; want 0x04", devErr.Code)
	}
}

func TestDriveFault(t *testing.T) {
	ctrl, bus := setup(t, 64)
	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}

	faulty := atatest.NewDisk(64)
	faulty.Fault = true
	ctrl.Attach(0, faulty)

	if err := d.WriteSectors(0, make([]byte, ata.SectorSize)); err != ata.ErrDriveFault {
		t.Errorf("WriteSectors() = %v; want %v", err, ata.ErrDriveFault)
	}
}

func TestFlush(t *testing.T) {
	ctrl := atatest.New(ata.PrimaryBase, ata.PrimaryControl)
	disk := atatest.NewDisk(64)
	ctrl.Attach(0, disk)
	bus := ata.NewBus(ata.Primary(ctrl), nil)
	bus.Scan()

	d, err := bus.Open(ata.PrimaryMaster)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if disk.Flushes == 0 {
		t.Error("Flush() issued no cache flush command")
	}

	// Every write is followed by an automatic cache flush.
	before := disk.Flushes
	if err := d.WriteSectors(0, make([]byte, ata.SectorSize)); err != nil {
		t.Fatal(err)
	}
	if disk.Flushes != before+1 {
		t.Errorf("WriteSectors() issued %d flushes; want 1", disk.Flushes-before)
	}
}
