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
	"testing"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-stfma/stfma"
)

func batchTensors(sizes []int) []Tensor {
	tensors := make([]Tensor, len(sizes))
	for i, n := range sizes {
		tensors[i] = Tensor{Raw: rawTensor(n), N: n}
	}
	return tensors
}

func TestCacheAll(t *testing.T) {
	Init()
	t.Cleanup(Shutdown)

	pool := workerpool.New(4)
	defer pool.Close()

	sizes := []int{16, 20, 4, 100, 1, 333}
	tensors := batchTensors(sizes)

	handles, err := CacheAll(pool, tensors)
	require.NoError(t, err)
	require.Len(t, handles, len(tensors))

	var wantBytes int64
	for i, tensor := range tensors {
		got := Get(handles[i])
		require.NotNil(t, got, "tensor %d", i)

		want := make([]byte, stfma.PackedSize(tensor.N))
		stfma.Encode(want, tensor.Raw[:len(want)])
		assert.Equal(t, want, got, "tensor %d", i)
		wantBytes += int64(len(want))
	}
	requireStats(t, len(tensors), wantBytes)
}

func TestCacheAllNilPool(t *testing.T) {
	Init()
	t.Cleanup(Shutdown)

	tensors := batchTensors([]int{16, 20, 4})
	handles, err := CacheAll(nil, tensors)
	require.NoError(t, err)
	require.Len(t, handles, 3)
	requireStats(t, 3, 10)
}

func TestCacheAllEmpty(t *testing.T) {
	Init()
	t.Cleanup(Shutdown)

	handles, err := CacheAll(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, handles)
	requireStats(t, 0, 0)
}

func TestCacheAllRollsBackOnError(t *testing.T) {
	Init()
	t.Cleanup(Shutdown)

	pool := workerpool.New(4)
	defer pool.Close()

	tensors := batchTensors([]int{16, 20, 4})
	tensors[1].N = 0 // poison the middle tensor

	handles, err := CacheAll(pool, tensors)
	require.ErrorIs(t, err, ErrZeroElements)
	assert.Nil(t, handles)

	// Nothing from the failed batch stays resident.
	requireStats(t, 0, 0)
}
