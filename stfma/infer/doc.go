// Package infer is the per-call entry point: it resolves a weight
// source, widens int8 activations, and runs the ternary dot-product
// kernel. Weights come either from the cache package (converted once at
// load) or from a raw upstream buffer converted just in time; both paths
// produce bit-identical results, the cached one just skips the repeated
// conversion.
package infer
