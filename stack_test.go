package chip8vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	assert.True(s.Push(0x202))
	assert.True(s.Push(0x300))
	assert.Equal(2, s.Len())

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0x300), val)

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x300), val)

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x202), val)
	assert.True(s.Empty())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(uint16(0), val)

	_, ok = s.Peek()
	assert.False(ok)
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := 0; i < StackDepth; i++ {
		assert.True(s.Push(uint16(i)))
	}
	assert.True(s.Full())
	assert.False(s.Push(0xFFF))
	assert.Equal(StackDepth, s.Len())

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(StackDepth-1), val)
}
