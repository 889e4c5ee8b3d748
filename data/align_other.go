//go:build !amd64 && !arm64

package data

// simdWidth is the fallback alignment width for architectures with no
// wide SIMD register file to speak of.
const simdWidth = 4
