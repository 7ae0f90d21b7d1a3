// Package cache retains kernel-layout weight tensors across inference
// calls. Tensors convert once, at model load, and are addressed by
// generation-checked handles: a freed or pre-reset handle never resolves
// to a newer tensor occupying the same slot. All operations are safe for
// concurrent use.
package cache
