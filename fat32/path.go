// Copyright 2026 The Portix Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fat32

import (
	"strings"
)

// splitPath breaks a slash-separated path into its components. Repeated and
// leading slashes are ignored.
func splitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// rootEntry synthesizes an entry for the root directory. The root has no
// short-name slot of its own, so the entry cannot be written or deleted.
func (v *Volume) rootEntry() DirEntry {
	return DirEntry{Name: "/", Dir: true, Cluster: v.rootCluster}
}

// dirCluster returns the cluster to walk when descending into e. A ".."
// entry in a child of the root stores cluster zero, which by convention
// means the root directory.
func (v *Volume) dirCluster(e DirEntry) uint32 {
	if e.Cluster == 0 {
		return v.rootCluster
	}
	return e.Cluster
}

// Lookup resolves a slash-separated path starting from the root directory
// and returns the entry it names. "/" resolves to a synthetic root entry.
func (v *Volume) Lookup(path string) (DirEntry, error) {
	cur := v.rootEntry()
	for _, name := range splitPath(path) {
		if !cur.Dir {
			return DirEntry{}, ErrInvalidPath
		}
		e, err := v.FindEntry(v.dirCluster(cur), name)
		if err != nil {
			return DirEntry{}, err
		}
		cur = e
	}
	return cur, nil
}

// LookupDir resolves a path that must name a directory and returns the
// cluster to enumerate it from.
func (v *Volume) LookupDir(path string) (uint32, error) {
	e, err := v.Lookup(path)
	if err != nil {
		return 0, err
	}
	if !e.Dir {
		return 0, ErrIsFile
	}
	return v.dirCluster(e), nil
}
