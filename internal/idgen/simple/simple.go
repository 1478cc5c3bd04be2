package simple

import (
	"context"
	"strconv"
	"sync/atomic"
)

// Generator hands out sequential ids with a fixed prefix.
type Generator struct {
	prefix  string
	counter atomic.Int64
}

func New(prefix string) *Generator {
	//nolint:exhaustruct
	return &Generator{prefix: prefix}
}

func (g *Generator) NewID(_ context.Context) (string, error) {
	return g.prefix + strconv.FormatInt(g.counter.Add(1), 10), nil
}
