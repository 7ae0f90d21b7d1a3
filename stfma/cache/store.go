// Copyright 2025 go-stfma Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ajroetker/go-stfma/stfma"
)

var (
	// ErrNoData reports a nil or empty raw weight buffer.
	ErrNoData = errors.New("stfma/cache: no weight data")

	// ErrZeroElements reports an element count of zero or less.
	ErrZeroElements = errors.New("stfma/cache: zero elements")

	// ErrShortBuffer reports a raw buffer that cannot cover the packed
	// size of the requested element count.
	ErrShortBuffer = errors.New("stfma/cache: weight buffer shorter than packed size")
)

// Handle identifies one cached tensor. The zero value is the null
// handle: Get returns nil for it and Free ignores it. A handle embeds
// the generation of its slot, so handles invalidated by Free, Init or
// Shutdown stay invalid even after the slot is reused.
type Handle struct {
	slot uint32
	gen  uint32
}

// IsNull reports whether h is the null handle.
func (h Handle) IsNull() bool { return h.gen == 0 }

// entry is one slot of the registry arena.
type entry struct {
	weights []byte // kernel layout, exactly PackedSize(n) bytes
	gen     uint32 // bumped every time the slot is occupied
	live    bool
}

// registry is the process-wide store: a slot arena plus a free list.
// Slot generations survive Init and Shutdown, which is what keeps
// handles from an earlier epoch dead forever. Aggregates are maintained
// incrementally so Stats never walks the arena.
type registry struct {
	mu      sync.RWMutex
	slots   []entry
	free    []uint32
	entries int
	bytes   int64
}

var reg registry

// takeSlot returns a vacant slot index, growing the arena when the free
// list is empty. Caller holds mu.
func (r *registry) takeSlot() uint32 {
	if k := len(r.free); k > 0 {
		idx := r.free[k-1]
		r.free = r.free[:k-1]
		return idx
	}
	r.slots = append(r.slots, entry{})
	return uint32(len(r.slots) - 1)
}

// lookup resolves h to its slot if the handle is live and current.
// Caller holds mu or mu.RLock.
func (r *registry) lookup(h Handle) *entry {
	if h.IsNull() || int(h.slot) >= len(r.slots) {
		return nil
	}
	s := &r.slots[h.slot]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}

// reset vacates every slot and zeroes the aggregates, keeping the arena
// and its generations. Caller holds mu.
func (r *registry) reset() {
	r.free = r.free[:0]
	for i := range r.slots {
		r.slots[i].weights = nil
		r.slots[i].live = false
		r.free = append(r.free, uint32(i))
	}
	r.entries = 0
	r.bytes = 0
}

// Init resets the registry to empty. Idempotent; calling it while
// entries are live releases them all, exactly like Shutdown.
func Init() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.reset()
}

// Shutdown releases every cached tensor. Safe on an empty registry and
// safe to call repeatedly.
func Shutdown() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.reset()
}

// CacheWeights converts one upstream tensor of n ternary elements into
// the kernel layout and retains it, returning its handle. Exactly
// PackedSize(n) bytes of raw are read and the same amount is retained;
// raw itself is not kept and may be reused or discarded by the caller.
//
// Invalid input returns a null handle and one of ErrNoData,
// ErrZeroElements or ErrShortBuffer, leaving the registry untouched.
func CacheWeights(raw []byte, n int) (Handle, error) {
	if len(raw) == 0 {
		return Handle{}, ErrNoData
	}
	if n <= 0 {
		return Handle{}, ErrZeroElements
	}
	size := stfma.PackedSize(n)
	if len(raw) < size {
		return Handle{}, fmt.Errorf("%w: have %d bytes, need %d for %d elements",
			ErrShortBuffer, len(raw), size, n)
	}

	// Convert outside the lock; only the finished buffer needs it.
	converted := make([]byte, size)
	stfma.Encode(converted, raw[:size])

	reg.mu.Lock()
	defer reg.mu.Unlock()
	idx := reg.takeSlot()
	s := &reg.slots[idx]
	s.weights = converted
	s.live = true
	s.gen++
	reg.entries++
	reg.bytes += int64(size)
	return Handle{slot: idx, gen: s.gen}, nil
}

// Get returns the kernel-layout buffer for h, or nil when h is null,
// freed, stale, or from before a reset. The returned bytes are shared
// and must not be modified.
func Get(h Handle) []byte {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	s := reg.lookup(h)
	if s == nil {
		return nil
	}
	return s.weights
}

// Free releases the tensor behind h and returns its slot to the free
// list. Null, already-freed, stale and foreign handles are ignored, so
// double frees are harmless.
func Free(h Handle) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	s := reg.lookup(h)
	if s == nil {
		return
	}
	reg.bytes -= int64(len(s.weights))
	reg.entries--
	s.weights = nil
	s.live = false
	reg.free = append(reg.free, h.slot)
}

// Stats returns the number of live entries and the total bytes of
// converted weight data they hold. Both reflect a single consistent
// snapshot.
func Stats() (entries int, totalBytes int64) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.entries, reg.bytes
}

// Report is an extended stats snapshot for logging at model load.
type Report struct {
	Entries    int
	TotalBytes int64

	// MemoryOverheadRatio relates retained converted bytes to the
	// upstream packed bytes they replace. The layouts are the same
	// width, so the ratio is 1: caching doubles residency only while
	// the caller still holds the originals.
	MemoryOverheadRatio float32
}

// StatsReport returns the extended snapshot.
func StatsReport() Report {
	entries, totalBytes := Stats()
	return Report{
		Entries:             entries,
		TotalBytes:          totalBytes,
		MemoryOverheadRatio: 1.0,
	}
}
