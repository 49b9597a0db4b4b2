package service

import (
	"strconv"
	"sync/atomic"
	"time"
)

// TokenGenerator hands out millisecond timestamps that never repeat within
// the process: a second call in the same millisecond gets last+1.
type TokenGenerator struct {
	last atomic.Int64
	now  func() time.Time
}

func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{now: time.Now}
}

func (g *TokenGenerator) Next() string {
	for {
		last := g.last.Load()
		next := g.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if g.last.CompareAndSwap(last, next) {
			return strconv.FormatInt(next, 10)
		}
	}
}
