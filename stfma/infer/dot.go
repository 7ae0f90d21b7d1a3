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

package infer

import (
	"sync"

	"github.com/ajroetker/go-stfma/stfma"
	"github.com/ajroetker/go-stfma/stfma/cache"
)

// Source selects where Dot reads its weights. Construct one with Cached
// or Raw; the zero Source behaves like Raw(nil).
type Source struct {
	handle cache.Handle
	raw    []byte
	cached bool
}

// Cached reads the tensor converted at load time and registered under h.
func Cached(h cache.Handle) Source {
	return Source{handle: h, cached: true}
}

// Raw reads an upstream-layout buffer and converts it on every call.
// Numerically identical to the cached path and useful before a cache is
// warm, but repeated calls pay the conversion each time.
func Raw(packed []byte) Source {
	return Source{raw: packed}
}

// workspace holds the per-call scratch: widened activations and the
// just-in-time conversion buffer. Both grow to the largest size seen and
// are recycled through a pool, so steady-state calls do not allocate for
// scratch.
type workspace struct {
	acts   []int32
	packed []byte
}

var workspacePool = sync.Pool{
	New: func() any { return new(workspace) },
}

// Dot computes the ternary dot product of the weights selected by src
// and len(activations) int8 activations. The accumulation is exact in
// int32; only the final value is converted to float32.
//
// A cached source whose handle no longer resolves (freed, stale, or
// null) yields 0 with no error, matching a zero weight tensor. Callers
// that must distinguish a miss from genuine zeroes check cache.Get
// before entering the hot loop.
//
// Panics when a raw source cannot cover the activations, like the
// kernel it feeds.
func Dot(src Source, activations []int8) float32 {
	n := len(activations)

	ws := workspacePool.Get().(*workspace)
	defer workspacePool.Put(ws)

	var weights []byte
	if src.cached {
		weights = cache.Get(src.handle)
		if weights == nil {
			return 0
		}
	} else {
		size := stfma.PackedSize(n)
		if len(src.raw) < size {
			panic("stfma/infer: raw weight buffer too small")
		}
		if cap(ws.packed) < size {
			ws.packed = make([]byte, size)
		}
		ws.packed = ws.packed[:size]
		stfma.Encode(ws.packed, src.raw[:size])
		weights = ws.packed
	}

	ws.acts = stfma.Widen(ws.acts, activations)
	return float32(stfma.DenseTail(weights, ws.acts))
}
