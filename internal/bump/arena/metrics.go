package arena

// ChunkCapacity returns the number of contiguous bytes still available in the
// current chunk before the arena must grow. This is the "remaining capacity"
// figure the bump package reports per goroutine slot.
func (a *Arena) ChunkCapacity() int {
	n := len(a.chunks)
	if n == 0 {
		return 0
	}
	c := &a.chunks[n-1]
	return len(c.buf) - int(c.offset)
}

// SizeInUse returns the total number of bytes currently consumed across all
// chunks, including padding introduced by alignment. This is also the figure
// the allocation limit is enforced against.
func (a *Arena) SizeInUse() int {
	sum := 0
	for i := range a.chunks {
		sum += int(a.chunks[i].offset)
	}
	return sum
}

// Capacity returns the total backing capacity of all chunks in bytes.
func (a *Arena) Capacity() int {
	sum := 0
	for i := range a.chunks {
		sum += len(a.chunks[i].buf)
	}
	return sum
}

// NumChunks returns the number of chunks currently backing the arena.
func (a *Arena) NumChunks() int {
	return len(a.chunks)
}

// Utilization returns the ratio of bytes in use to total capacity, or 0 when
// the arena holds no chunks.
func (a *Arena) Utilization() float64 {
	c := a.Capacity()
	if c == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(c)
}

// AllocationLimit returns the configured allocation ceiling and whether one
// is set.
func (a *Arena) AllocationLimit() (int, bool) {
	if a.limit == NoLimit {
		return 0, false
	}
	return a.limit, true
}

// Metrics is a point-in-time snapshot of arena statistics.
type Metrics struct {
	SizeInUse     int     // bytes currently consumed, padding included
	Capacity      int     // total backing capacity in bytes
	ChunkCapacity int     // contiguous bytes left in the current chunk
	NumChunks     int     // number of backing chunks
	Utilization   float64 // SizeInUse / Capacity, 0 when empty
}

// Snapshot returns a Metrics snapshot of the arena.
func (a *Arena) Snapshot() Metrics {
	return Metrics{
		SizeInUse:     a.SizeInUse(),
		Capacity:      a.Capacity(),
		ChunkCapacity: a.ChunkCapacity(),
		NumChunks:     a.NumChunks(),
		Utilization:   a.Utilization(),
	}
}
