package process

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"time"

	"golang.org/x/exp/rand"
)

// NewRand returns a PCG-backed generator for seed. Two generators built
// from the same seed produce identical streams.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomSeed returns an unpredictable seed for runs where the caller did
// not ask for reproducibility.
func RandomSeed() uint64 {
	var seed uint64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return seed
}

// DeriveSeeds expands a root seed into n independent stream seeds.
func DeriveSeeds(root uint64, n int) []uint64 {
	r := NewRand(root)
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = r.Uint64()
	}
	return seeds
}
