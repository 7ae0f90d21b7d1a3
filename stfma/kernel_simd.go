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

import (
	"github.com/ajroetker/go-highway/hwy"
)

// simdKernel is the vector implementation on the hwy portable API. Per
// int32 vector it unpacks one field per lane through a staging buffer,
// subtracts 1 to decode to weights, multiplies by the activations and
// accumulates. The final partial vector is mask-loaded so inactive lanes
// read nothing and contribute zero.
type simdKernel struct{}

func (simdKernel) DenseTail(weights []byte, acts []int32) int32 {
	n := len(acts)
	sum := hwy.Zero[int32]()
	one := hwy.Set[int32](1)
	lanes := sum.NumLanes()

	// Fields unpack lane by lane into a staging buffer; packed 2-bit
	// extraction needs per-lane shift amounts the portable ops do not
	// express directly.
	staged := make([]int32, lanes)

	var i int
	for i = 0; i+lanes <= n; i += lanes {
		for lane := 0; lane < lanes; lane++ {
			staged[lane] = int32(fieldAt(weights, i+lane))
		}
		w := hwy.Sub(hwy.Load(staged), one)
		a := hwy.Load(acts[i:])
		sum = hwy.Add(sum, hwy.Mul(w, a))
	}

	if r := n - i; r > 0 {
		mask := hwy.TailMask[int32](r)
		for lane := 0; lane < r; lane++ {
			staged[lane] = int32(fieldAt(weights, i+lane))
		}
		// Inactive activation lanes load as zero, so whatever the
		// inactive weight lanes hold, their products vanish.
		w := hwy.Sub(hwy.MaskLoad(mask, staged), one)
		a := hwy.MaskLoad(mask, acts[i:])
		sum = hwy.Add(sum, hwy.Mul(w, a))
	}

	return hwy.ReduceSum(sum)
}
