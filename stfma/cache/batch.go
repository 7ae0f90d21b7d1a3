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
	"fmt"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// Tensor is one raw upstream tensor queued for caching.
type Tensor struct {
	Raw []byte
	N   int
}

// CacheAll converts and caches a batch of tensors, one handle per input
// in input order. With a pool, tensors convert concurrently with
// work-stealing, which suits the model-load shape where layer tensors
// vary widely in size; a nil pool converts sequentially.
//
// On any failure every tensor cached by this call is freed and the
// first error is returned, so a partial model never stays resident.
func CacheAll(pool *workerpool.Pool, tensors []Tensor) ([]Handle, error) {
	handles := make([]Handle, len(tensors))
	errs := make([]error, len(tensors))

	convert := func(i int) {
		handles[i], errs[i] = CacheWeights(tensors[i].Raw, tensors[i].N)
	}

	if pool == nil || len(tensors) < 2 {
		for i := range tensors {
			convert(i)
		}
	} else {
		pool.ParallelForAtomic(len(tensors), convert)
	}

	for i, err := range errs {
		if err != nil {
			for _, h := range handles {
				Free(h)
			}
			return nil, fmt.Errorf("stfma/cache: tensor %d: %w", i, err)
		}
	}
	return handles, nil
}
