package piece

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteBlockShortLastBlock(t *testing.T) {
	p := New(0, BlockLength+100) // 2 blocks: 16KiB, 100 bytes
	assert.EqualValues(t, 2, p.CountBlocks())

	p.CompleteBlock(0)
	assert.EqualValues(t, BlockLength, p.CompletedLength())

	p.CompleteBlock(1)
	assert.EqualValues(t, BlockLength+100, p.CompletedLength())
	assert.True(t, p.IsComplete())
}

func TestCompleteBlockIdempotent(t *testing.T) {
	p := New(3, BlockLength)
	p.CompleteBlock(0)
	p.CompleteBlock(0)
	assert.EqualValues(t, BlockLength, p.CompletedLength(), "double-complete must not double-count")
}

func TestSetAllBlocks(t *testing.T) {
	p := New(0, BlockLength*2+1)
	p.SetAllBlocks()
	assert.True(t, p.IsComplete())
	assert.EqualValues(t, BlockLength*2+1, p.CompletedLength())
}

func TestCountCompleteBlocks(t *testing.T) {
	p := New(0, BlockLength*3)
	p.CompleteBlock(0)
	p.CompleteBlock(2)
	assert.EqualValues(t, 2, p.CountCompleteBlocks())
	assert.EqualValues(t, 3, p.CountBlocks())
}
