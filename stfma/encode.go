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

// The upstream-to-kernel transform works on bit planes: with each byte
// holding four (hi, lo) field pairs, selecting all low bits and all high
// bits at once rewrites four fields per operation. Per field the rule is
//
//	lo' = hi
//	hi' = NOT(hi XOR lo)
//
// which sends upstream fields 0,1,2 to kernel fields 2,0,1, i.e. weights
// +1,-1,0. Field 3, unused by valid tensors, maps to 3. No step carries
// across field boundaries.
const (
	lowPlane  = 0x55 // bits 0,2,4,6: the low bit of each field
	highPlane = 0xAA // bits 1,3,5,7: the high bit of each field
)

// lowBitPlane isolates the low bit of all four fields of b.
func lowBitPlane(b byte) byte {
	return b & lowPlane
}

// highBitPlane isolates the high bit of all four fields of b and shifts
// it down next to the low bit, so the planes line up for combining.
func highBitPlane(b byte) byte {
	return (b & highPlane) >> 1
}

// eqPlane is the per-field XNOR of two aligned bit planes: bit i of the
// result is 1 when hi and lo agree in field i. Operands and result all
// live in the low bit positions.
func eqPlane(hi, lo byte) byte {
	return ^(hi ^ lo) & lowPlane
}

// EncodeByte rewrites one upstream packed byte into the kernel layout.
// It is branch-free and total: all 256 inputs produce a defined output.
func EncodeByte(b byte) byte {
	lo := lowBitPlane(b)
	hi := highBitPlane(b)
	return eqPlane(hi, lo)<<1 | hi
}

// Encode rewrites src from the upstream layout into the kernel layout,
// one byte at a time. Because each output byte depends only on the same
// input byte, encoding in place is safe when dst and src are the same
// slice; other overlaps are not. Panics when dst is shorter than src.
func Encode(dst, src []byte) {
	if len(dst) < len(src) {
		panic("stfma: encode destination shorter than source")
	}
	for i, b := range src {
		dst[i] = EncodeByte(b)
	}
}
