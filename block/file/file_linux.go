// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package file

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// deviceGeometry reports the total size in bytes and the logical sector size
// of a raw block device node.
func deviceGeometry(fd uintptr) (size int64, sectorSize int64, err error) {
	// BLKGETSIZE64 fills a 64-bit byte count; there is no typed ioctl
	// wrapper for it, so issue the syscall directly.
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, unix.BLKGETSIZE64,
		uintptr(unsafe.Pointer(&size))); errno != 0 {
		return 0, 0, errno
	}
	ss, err := unix.IoctlGetInt(int(fd), unix.BLKSSZGET)
	if err != nil {
		return 0, 0, err
	}
	return size, int64(ss), nil
}
