//go:build arm64

package data

// simdWidth is the SIMD register width (in bytes) used to round up aligned
// allocations.
const simdWidth = 8
