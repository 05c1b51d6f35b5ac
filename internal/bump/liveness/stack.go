// Copyright 2025 The bumplocal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liveness

import "runtime"

// liveGIDs returns the IDs of every goroutine alive at the moment of the
// call, by parsing a runtime.Stack(buf, true) dump.
//
// runtime.Stack with all=true stops the world, so the returned set is a
// consistent snapshot: a goroutine alive when the dump was taken is always
// present. The buffer is doubled until the dump fits; a truncated dump could
// silently drop goroutines and make the sweep kill live tokens.
func liveGIDs() []int64 {
	buf := make([]byte, 256<<10)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return parseAllGIDs(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}

// parseAllGIDs extracts every goroutine ID from an all-goroutines stack
// dump. One "goroutine N [state]:" header line per goroutine.
func parseAllGIDs(buf []byte) []int64 {
	var gids []int64

	i := 0
	for i < len(buf) {
		end := i
		for end < len(buf) && buf[end] != '\n' {
			end++
		}
		if gid := parseGID(buf[i:end]); gid != 0 {
			gids = append(gids, gid)
		}
		i = end + 1
	}

	return gids
}

// parseGID parses the goroutine ID from a "goroutine N [state]:" header
// line. Returns 0 for anything that is not a header line. No allocations
// beyond the prefix comparison.
func parseGID(line []byte) int64 {
	const prefix = "goroutine "
	if len(line) < len(prefix) || string(line[:len(prefix)]) != prefix {
		return 0
	}

	var gid int64
	for _, c := range line[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		gid = gid*10 + int64(c-'0')
	}
	return gid
}
