package usecase

import (
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"
)

// ChaChaSource is the default payment outcome generator.
type ChaChaSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewChaChaSource seeds a ChaCha8 generator. A zero seed uses the clock.
func NewChaChaSource(seed uint64) *ChaChaSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	var seedBytes [32]byte
	binary.LittleEndian.PutUint64(seedBytes[0:8], seed)
	return &ChaChaSource{rnd: rand.New(rand.NewChaCha8(seedBytes))}
}

func (s *ChaChaSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}
