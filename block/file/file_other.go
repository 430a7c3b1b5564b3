// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !linux

package file

import (
	"github.com/pkg/errors"
)

func deviceGeometry(fd uintptr) (size int64, sectorSize int64, err error) {
	return 0, 0, errors.New("raw block devices are not supported on this platform")
}
