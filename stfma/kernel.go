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

package stfma

// Kernel computes the ternary dot product
//
//	sum over i < len(acts) of (field_i - 1) * acts[i]
//
// against a kernel-layout weight buffer. Implementations handle any
// length, read at most PackedSize(len(acts)) weight bytes, and must
// agree exactly with scalarKernel. Accumulation is wrapping int32, so
// lane order never changes the result.
type Kernel interface {
	DenseTail(weights []byte, acts []int32) int32
}

// scalarKernel is the portable reference implementation. It is always
// available and serves as the oracle the vector path is tested against.
type scalarKernel struct{}

func (scalarKernel) DenseTail(weights []byte, acts []int32) int32 {
	var sum int32
	for i, a := range acts {
		sum += weightAt(weights, i) * a
	}
	return sum
}

// DenseTail computes the ternary dot product of len(acts) packed weights
// and widened activations using the kernel selected at startup. Any
// length is accepted; the implementation never reads activations beyond
// the slice or weight bytes beyond the byte holding element len(acts)-1.
// Panics when weights cannot cover the activations.
func DenseTail(weights []byte, acts []int32) int32 {
	if len(weights) < PackedSize(len(acts)) {
		panic("stfma: weight buffer too small")
	}
	return active.DenseTail(weights, acts)
}

// Dense is DenseTail restricted to whole chunks. Panics unless len(acts)
// is a multiple of ChunkLen; use DenseTail for ragged lengths.
func Dense(weights []byte, acts []int32) int32 {
	if len(acts)%ChunkLen != 0 {
		panic("stfma: dense length not a multiple of ChunkLen")
	}
	return DenseTail(weights, acts)
}
