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
	"os"

	"github.com/ajroetker/go-highway/hwy"
)

// active is the kernel every package-level entry point routes through.
// It is chosen once at init and only swapped by selectKernel in tests.
var active Kernel

var activeName string

func init() {
	selectKernel()
}

// selectKernel picks the vector kernel when the hwy runtime dispatched to
// a real SIMD target, and the scalar reference otherwise. Setting
// STFMA_FORCE_SCALAR to any non-empty value forces the scalar kernel, as
// does hwy's own HWY_NO_SIMD.
func selectKernel() {
	if hwy.NoSimdEnv() || os.Getenv("STFMA_FORCE_SCALAR") != "" ||
		hwy.CurrentLevel() == hwy.DispatchScalar {
		active = scalarKernel{}
		activeName = "scalar"
		return
	}
	active = simdKernel{}
	activeName = hwy.CurrentName()
}

// KernelName reports which dot-product implementation is in use:
// "scalar", or the hwy dispatch target such as "avx2" or "neon".
func KernelName() string {
	return activeName
}
