// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"os"
	"path"

	"github.com/pkg/errors"

	"github.com/omarPVP123131/Portix-OS-sub000/block/file"
	"github.com/omarPVP123131/Portix-OS-sub000/fat32"
)

// openVolume mounts the FAT32 volume inside an image file. The caller must
// Unmount the returned volume, which also closes the image.
func openVolume(image string) (*fat32.Volume, error) {
	f, err := os.OpenFile(image, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	dev, err := file.New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	v, err := fat32.Mount(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return v, nil
}

// splitTarget breaks a volume path into its parent directory and base name.
func splitTarget(p string) (dir, name string, err error) {
	dir, name = path.Split(path.Clean("/" + p))
	if name == "" {
		return "", "", errors.Errorf("%q does not name an entry", p)
	}
	return dir, name, nil
}
