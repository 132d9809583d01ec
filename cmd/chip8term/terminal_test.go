package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInput stands in for the terminal: poll blocks until an event is fed or
// interrupt is called.
type fakeInput struct {
	feed  chan termbox.Event
	polls atomic.Int32
}

func newFakeInput() *fakeInput {
	return &fakeInput{feed: make(chan termbox.Event)}
}

func (in *fakeInput) poll() termbox.Event {
	in.polls.Add(1)
	return <-in.feed
}

func (in *fakeInput) interrupt() {
	in.feed <- termbox.Event{Type: termbox.EventInterrupt}
}

func stopWithin(t *testing.T, stop func()) {
	t.Helper()
	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		require.FailNow(t, "stop did not return")
	}
}

func TestPumpEvents_Forward(t *testing.T) {
	assert := assert.New(t)

	in := newFakeInput()
	events, stop := pumpEvents(in.poll, in.interrupt)

	in.feed <- termbox.Event{Type: termbox.EventKey, Ch: 'q'}
	ev := <-events
	assert.Equal(termbox.EventKey, ev.Type)
	assert.Equal('q', ev.Ch)

	stopWithin(t, stop)
	_, ok := <-events
	assert.False(ok)

	polls := in.polls.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(polls, in.polls.Load())
}

func TestPumpEvents_StopWithUnreadEvent(t *testing.T) {
	in := newFakeInput()
	events, stop := pumpEvents(in.poll, in.interrupt)

	// nobody reads this one, the goroutine is parked on the send
	in.feed <- termbox.Event{Type: termbox.EventKey, Ch: 'w'}
	stopWithin(t, stop)

	_, ok := <-events
	assert.False(t, ok)
}

func TestTerminal_KeyHold(t *testing.T) {
	assert := assert.New(t)

	var term Terminal
	term.held[0x5] = 2

	keys := term.keypad()
	assert.True(keys.Pressed(0x5))
	assert.False(keys.Pressed(0x4))

	keys = term.keypad()
	assert.True(keys.Pressed(0x5))

	keys = term.keypad()
	assert.False(keys.Pressed(0x5))
}
