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
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// MinParallelEncodeBytes is the minimum buffer size before EncodeAuto
// splits the conversion across a worker pool. The transform is a handful
// of bit operations per byte, so fan-out only pays off for weight
// tensors in the megabyte range.
const MinParallelEncodeBytes = 1 << 20

// EncodeAuto is Encode with optional parallelism. Buffers below
// MinParallelEncodeBytes, or any buffer when pool is nil, are converted
// on the calling goroutine. Output is identical either way; each worker
// owns a disjoint byte range.
func EncodeAuto(pool *workerpool.Pool, dst, src []byte) {
	if len(dst) < len(src) {
		panic("stfma: encode destination shorter than source")
	}
	if pool == nil || len(src) < MinParallelEncodeBytes {
		Encode(dst, src)
		return
	}
	pool.ParallelFor(len(src), func(start, end int) {
		Encode(dst[start:end], src[start:end])
	})
}
