package game

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// SeedValue reads the first 4 bytes of the seed as a big-endian uint32.
func SeedValue(seed []byte) (uint32, error) {
	if len(seed) < 4 {
		return 0, fmt.Errorf("%w: got %d", ErrShortSeed, len(seed))
	}
	return binary.BigEndian.Uint32(seed[:4]), nil
}

// BuildPool returns the domain minus history in ascending order.
func BuildPool(domain Domain, history map[int]struct{}) []int {
	pool := make([]int, 0, domain.Size())
	for n := domain.Min; n <= domain.Max; n++ {
		if _, drawn := history[n]; !drawn {
			pool = append(pool, n)
		}
	}
	return pool
}

// DeriveNumber maps a seed onto the pool: pool[SeedValue(seed) mod len(pool)].
// The pool must be ascending.
func DeriveNumber(seed []byte, pool []int) (int, error) {
	if len(pool) == 0 {
		return 0, ErrPoolExhausted
	}
	if !sort.IntsAreSorted(pool) {
		return 0, fmt.Errorf("pool is not in ascending order")
	}

	value, err := SeedValue(seed)
	if err != nil {
		return 0, err
	}

	index := uint64(value) % uint64(len(pool))
	return pool[index], nil
}
