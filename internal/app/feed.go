package app

import "sync"

// feed fans snapshots out to subscribers. Each subscriber holds a small buffer;
// when it is full the oldest snapshot is dropped so a slow reader never blocks
// a state transition and always ends up with the latest state.
type feed[T any] struct {
	mu          sync.Mutex
	subscribers map[chan T]struct{}
}

func newFeed[T any]() *feed[T] {
	return &feed[T]{subscribers: make(map[chan T]struct{})}
}

// subscribe registers a channel seeded with initial. The caller must invoke the
// returned cancel function to avoid leaks.
func (f *feed[T]) subscribe(initial T) (<-chan T, func()) {
	ch := make(chan T, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	ch <- initial

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *feed[T]) publish(snapshot T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
