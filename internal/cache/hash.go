package cache

import "github.com/cespare/xxhash/v2"

// ContentHash combines an xxhash fold with length and first/last byte
// values to reduce trivial collisions between similarly-shaped scripts
// (spec.md §4.6 "Implementations are encouraged to combine a fold-hash
// with length and first/last byte values").
func ContentHash(source string) uint64 {
	h := xxhash.Sum64String(source)
	if len(source) == 0 {
		return h
	}
	first := uint64(source[0])
	last := uint64(source[len(source)-1])
	length := uint64(len(source))
	return h ^ (length << 48) ^ (first << 24) ^ last
}
