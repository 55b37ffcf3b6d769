package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBusDispatch(t *testing.T) {
	bus := NewKeyBus()

	var seen []string
	l1 := bus.Listen(func(e KeyEvent) bool {
		seen = append(seen, "first:"+e.Key)
		return false
	})
	bus.Listen(func(e KeyEvent) bool {
		seen = append(seen, "second:"+e.Key)
		return e.Key == "x"
	})

	assert.False(t, bus.Dispatch(KeyEvent{Key: "a"}))
	assert.True(t, bus.Dispatch(KeyEvent{Key: "x"}))
	assert.Equal(t, []string{"first:a", "second:a", "first:x", "second:x"}, seen)

	l1.Stop()
	l1.Stop()
	assert.Equal(t, 1, bus.Len())
}

func TestKeyBusHandlerStopsItself(t *testing.T) {
	bus := NewKeyBus()

	calls := 0
	var l Listener
	l = bus.Listen(func(e KeyEvent) bool {
		calls++
		l.Stop()
		return true
	})

	assert.True(t, bus.Dispatch(KeyEvent{Key: "a"}))
	assert.False(t, bus.Dispatch(KeyEvent{Key: "b"}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Len())
}
