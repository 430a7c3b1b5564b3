// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ata

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDrive indicates that no device responded on the selected slot.
	ErrNoDrive = errors.New("ata: no drive present")

	// ErrTimeout indicates that the device did not reach the expected state
	// within the polling bound.
	ErrTimeout = errors.New("ata: timed out waiting for drive")

	// ErrDriveFault indicates that the device raised its fault bit.
	ErrDriveFault = errors.New("ata: drive fault")

	// ErrOutOfRange indicates that a requested LBA range extends beyond the
	// addressable sectors of the drive.
	ErrOutOfRange = errors.New("ata: sector range is out of range")

	// ErrBadBuffer indicates that the length of a provided buffer is not a
	// multiple of the sector size.
	ErrBadBuffer = errors.New("ata: buffer length is not a multiple of the sector size")
)

// DeviceError indicates that the device raised its error bit while executing
// a command. Code holds the contents of the error register.
type DeviceError struct {
	Code uint8
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("ata: device error (error register %#02x)", e.Code)
}
