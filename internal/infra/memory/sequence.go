package memory

import "sync/atomic"

// sequence hands out monotonically increasing ids for one entity kind.
type sequence struct {
	last atomic.Int64
}

func (s *sequence) NextID() int64 {
	return s.last.Add(1)
}
