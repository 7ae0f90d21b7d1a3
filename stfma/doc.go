// Package stfma implements sparse ternary fused multiply-add: dot
// products between ternary weights {-1, 0, +1} packed four to a byte and
// int8 activations widened to int32.
//
// Two packed layouts share the same four-elements-per-byte framing but
// differ in how the 2-bit fields map to weights:
//
//   - the upstream layout, as produced by BitNet-style quantizers, where
//     field 0 decodes to +1, field 1 to -1 and field 2 to 0;
//   - the kernel layout, where a field decodes to the weight field-1, so
//     the inner loop is a single subtract instead of a lookup.
//
// EncodeByte and Encode rewrite upstream bytes into kernel bytes with
// three bit-plane operations and no per-element branching. The conversion
// runs once at load time; see the cache package for retaining converted
// tensors across calls.
//
// DenseTail computes the dot product for any length, masking the final
// partial vector so it never reads past the last activation or past the
// byte holding the last weight. Dense is the whole-chunk restriction.
// Both route through a Kernel implementation chosen at startup: a vector
// path built on the hwy portable SIMD API, or a portable scalar path that
// doubles as the reference the vector path is tested against.
package stfma
