package randq

import (
	"math/rand"
	"sync"
)

var (
	lock sync.Mutex
	r    = rand.New(rand.NewSource(GetSeed()))
)

// Uint64 returns a pseudo-random 64-bit value.
//
// Unlike math/rand's global functions it's seeded from GetSeed,
// and unlike a bare rand.Rand it's safe for concurrent use.
func Uint64() uint64 {
	lock.Lock()
	defer lock.Unlock()
	return r.Uint64()
}
