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

// Command stfma-bench measures ternary dot-product throughput on the
// cached and just-in-time weight paths and reports which kernel the
// runtime dispatched to.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"time"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-stfma/stfma"
	"github.com/ajroetker/go-stfma/stfma/cache"
	"github.com/ajroetker/go-stfma/stfma/infer"
)

var (
	elems   = flag.Int("n", 4096, "Elements per weight tensor")
	tensors = flag.Int("tensors", 64, "Number of tensors in the model")
	iters   = flag.Int("iters", 200, "Hot-loop passes over the model")
	workers = flag.Int("workers", 0, "Pool size for model load (0 = GOMAXPROCS)")
)

func cpuFeatures() string {
	switch runtime.GOARCH {
	case "amd64":
		return fmt.Sprintf("avx2=%v avx512f=%v avx512vnni=%v",
			cpu.X86.HasAVX2, cpu.X86.HasAVX512F, cpu.X86.HasAVX512VNNI)
	case "arm64":
		return fmt.Sprintf("asimd=%v sve=%v", cpu.ARM64.HasASIMD, cpu.ARM64.HasSVE)
	default:
		return "n/a"
	}
}

func main() {
	flag.Parse()
	n := *elems

	fmt.Printf("arch: %s (%s)\n", runtime.GOARCH, cpuFeatures())
	fmt.Printf("hwy:  %s, %d-byte vectors\n", hwy.CurrentName(), hwy.CurrentWidth())
	fmt.Printf("stfma kernel: %s\n\n", stfma.KernelName())

	rng := rand.New(rand.NewSource(42))
	model := make([]cache.Tensor, *tensors)
	for i := range model {
		raw := make([]byte, stfma.PackedSize(n))
		for j := range raw {
			// Four upstream fields per byte, each in 0..2.
			raw[j] = byte(rng.Intn(3)) | byte(rng.Intn(3))<<2 |
				byte(rng.Intn(3))<<4 | byte(rng.Intn(3))<<6
		}
		model[i] = cache.Tensor{Raw: raw, N: n}
	}
	acts := make([]int8, n)
	for i := range acts {
		acts[i] = int8(rng.Intn(256) - 128)
	}

	cache.Init()
	defer cache.Shutdown()
	pool := workerpool.New(*workers)
	defer pool.Close()

	loadStart := time.Now()
	handles, err := cache.CacheAll(pool, model)
	if err != nil {
		log.Fatalf("model load: %v", err)
	}
	loadTime := time.Since(loadStart)

	entries, totalBytes := cache.Stats()
	fmt.Printf("model load: %d tensors, %d bytes in %v\n\n", entries, totalBytes, loadTime)

	calls := *iters * *tensors

	cachedStart := time.Now()
	var cachedSum float64
	for pass := 0; pass < *iters; pass++ {
		for _, h := range handles {
			cachedSum += float64(infer.Dot(infer.Cached(h), acts))
		}
	}
	cachedTime := time.Since(cachedStart)

	jitStart := time.Now()
	var jitSum float64
	for pass := 0; pass < *iters; pass++ {
		for i := range model {
			jitSum += float64(infer.Dot(infer.Raw(model[i].Raw), acts))
		}
	}
	jitTime := time.Since(jitStart)

	if cachedSum != jitSum {
		log.Fatalf("paths disagree: cached %v, jit %v", cachedSum, jitSum)
	}

	report("cached", cachedTime, calls, n)
	report("jit   ", jitTime, calls, n)
	fmt.Printf("\ncached speedup over jit: %.2fx\n",
		float64(jitTime)/float64(cachedTime))
}

func report(name string, total time.Duration, calls, n int) {
	perCall := total / time.Duration(calls)
	melems := float64(calls) * float64(n) / total.Seconds() / 1e6
	fmt.Printf("%s  %10v/call  %10.1f Melem/s\n", name, perCall, melems)
}
