package core

// KeyHandler receives a key press and reports whether it consumed it.
// Consumed events must not propagate to the rest of the host.
type KeyHandler func(KeyEvent) bool

// Listener is an active key handler registration.
type Listener interface {
	Stop() // Deregister the handler. Safe to call more than once.
}

// KeySource delivers host key presses to registered handlers.
type KeySource interface {
	Listen(handler KeyHandler) Listener
}

// KeyBus is a KeySource fed by the host through Dispatch.
// It is not safe for concurrent use; hosts dispatch from their event loop.
type KeyBus struct {
	nextID   int
	handlers []busEntry
}

type busEntry struct {
	id      int
	handler KeyHandler
}

type busListener struct {
	bus *KeyBus
	id  int
}

func NewKeyBus() *KeyBus {
	return &KeyBus{}
}

// Listen registers handler until the returned Listener is stopped.
func (b *KeyBus) Listen(handler KeyHandler) Listener {
	b.nextID++
	b.handlers = append(b.handlers, busEntry{id: b.nextID, handler: handler})
	return &busListener{bus: b, id: b.nextID}
}

// Dispatch delivers e to every handler in registration order and reports
// whether any of them consumed it.
func (b *KeyBus) Dispatch(e KeyEvent) bool {
	// Handlers may stop themselves while handling e.
	handlers := make([]busEntry, len(b.handlers))
	copy(handlers, b.handlers)

	consumed := false
	for _, entry := range handlers {
		if entry.handler(e) {
			consumed = true
		}
	}
	return consumed
}

// Len returns the number of active handlers.
func (b *KeyBus) Len() int {
	return len(b.handlers)
}

func (b *KeyBus) remove(id int) {
	for i, entry := range b.handlers {
		if entry.id == id {
			b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
			return
		}
	}
}

func (l *busListener) Stop() {
	if l.bus == nil {
		return
	}
	l.bus.remove(l.id)
	l.bus = nil
}
