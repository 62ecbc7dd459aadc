package pieceset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"swarmcore/internal/piece"
)

func TestAddGetRemove(t *testing.T) {
	s := New()
	p5 := piece.New(5, 100)
	assert.True(t, s.Add(p5))
	assert.False(t, s.Add(piece.New(5, 100)), "duplicate index must be rejected")
	assert.Equal(t, 1, s.Len())

	got, ok := s.Get(5)
	assert.True(t, ok)
	assert.Same(t, p5, got)

	assert.True(t, s.Remove(5))
	assert.False(t, s.Has(5))
	assert.False(t, s.Remove(5))
}

func TestEachInsertionOrder(t *testing.T) {
	s := New()
	s.Add(piece.New(2, 10))
	s.Add(piece.New(0, 10))
	s.Add(piece.New(1, 10))

	var order []uint32
	s.Each(func(p *piece.Piece) { order = append(order, p.Index) })
	assert.Equal(t, []uint32{2, 0, 1}, order)
}
