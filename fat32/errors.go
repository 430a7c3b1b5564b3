// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"errors"
)

var (
	// ErrNotFat32 indicates that the device holds no valid FAT32 volume.
	ErrNotFat32 = errors.New("fat32: not a FAT32 volume")

	// ErrNotFound indicates that no directory entry matched the name.
	ErrNotFound = errors.New("fat32: entry not found")

	// ErrNoSpace indicates that the volume has no free cluster left.
	ErrNoSpace = errors.New("fat32: no free clusters")

	// ErrIsDir indicates that a file operation was attempted on a directory.
	ErrIsDir = errors.New("fat32: entry is a directory")

	// ErrIsFile indicates that a directory operation was attempted on a file.
	ErrIsFile = errors.New("fat32: entry is a file")

	// ErrNameTooLong indicates that a name exceeds the 255-unit limit.
	ErrNameTooLong = errors.New("fat32: name too long")

	// ErrInvalidPath indicates a malformed or empty path component.
	ErrInvalidPath = errors.New("fat32: invalid path")

	// ErrCorrupt indicates an on-disk structure that contradicts itself,
	// such as a FAT chain pointing outside the volume.
	ErrCorrupt = errors.New("fat32: filesystem is corrupt")
)
