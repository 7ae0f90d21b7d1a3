package stfma

import (
	"github.com/ajroetker/go-highway/hwy"
)

// Widen sign-extends int8 activations into the int32 form the kernels
// consume. It writes into dst when the capacity suffices and allocates an
// exact-fit buffer otherwise, so a buffer reused across calls grows
// monotonically to the largest length seen and is never shrunk. The
// returned slice has len(src) elements.
func Widen(dst []int32, src []int8) []int32 {
	if cap(dst) < len(src) {
		dst = make([]int32, len(src))
	}
	dst = dst[:len(src)]

	n := len(src)
	step := hwy.MaxLanes[int8]()
	var i int
	for i = 0; i+step <= n; i += step {
		v := hwy.Load(src[i:])
		w := hwy.PromoteI16ToI32(hwy.PromoteI8ToI16(v))
		hwy.Store(w, dst[i:])
	}
	for ; i < n; i++ {
		dst[i] = int32(src[i])
	}
	return dst
}
