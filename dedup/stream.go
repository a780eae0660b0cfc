package dedup

import (
	"sync"
	"sync/atomic"
)

// Event is a single delivery on a Subscription.
//
// A successful stream delivers zero or more value events followed by channel
// close. A failed stream delivers its buffered values, then one terminal
// event with Err set, then channel close.
type Event struct {
	Value any
	Err   error
}

// stream is the shared, replayed emission sequence for one active key.
//
// Emissions are buffered so that subscribers joining after the first values
// were produced still observe the full sequence, in order. The buffer lives
// only as long as the key is active; it is dropped with the stream once the
// entry leaves the map and all subscriptions drain.
type stream struct {
	mu   sync.Mutex
	cond *sync.Cond
	buf  []any
	err  error
	done bool
}

func newStream() *stream {
	st := &stream{}
	st.cond = sync.NewCond(&st.mu)
	return st
}

// emit appends a value to the replay buffer and wakes subscribers.
func (st *stream) emit(v any) {
	st.mu.Lock()
	if st.done {
		// Emissions after completion are a producer bug; drop them rather
		// than corrupt the terminal state seen by subscribers.
		st.mu.Unlock()
		return
	}
	st.buf = append(st.buf, v)
	st.mu.Unlock()
	st.cond.Broadcast()
}

// complete marks the stream finished. Exactly one call wins; later calls are
// no-ops.
func (st *stream) complete(err error) {
	st.mu.Lock()
	if st.done {
		st.mu.Unlock()
		return
	}
	st.done = true
	st.err = err
	st.mu.Unlock()
	st.cond.Broadcast()
}

// subscribe registers a new consumer. Every subscriber receives the full
// buffered sequence followed by live emissions.
func (st *stream) subscribe() *Subscription {
	sub := &Subscription{
		st:   st,
		ch:   make(chan Event),
		stop: make(chan struct{}),
	}
	go sub.pump()
	return sub
}

// Subscription is one consumer's view of a shared stream.
type Subscription struct {
	st       *stream
	ch       chan Event
	stop     chan struct{}
	stopOnce sync.Once
	canceled atomic.Bool
}

// Events returns the delivery channel. The channel is closed after the
// terminal event (or immediately on completion of an empty stream).
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Cancel detaches this subscriber. It never cancels the underlying
// operation: the shared source always runs to completion so that the active
// entry is cleaned up even when every subscriber has walked away.
// Cancel is idempotent and safe to call concurrently with Events reads.
func (s *Subscription) Cancel() {
	s.stopOnce.Do(func() {
		s.canceled.Store(true)
		close(s.stop)
		// Wake the pump if it is parked waiting for emissions.
		s.st.cond.Broadcast()
	})
}

// pump replays buffered emissions and then follows live ones, delivering
// in order until the stream completes or the subscription is canceled.
func (s *Subscription) pump() {
	defer close(s.ch)

	next := 0
	for {
		s.st.mu.Lock()
		for next >= len(s.st.buf) && !s.st.done && !s.canceled.Load() {
			s.st.cond.Wait()
		}
		if s.canceled.Load() {
			s.st.mu.Unlock()
			return
		}

		var ev Event
		var terminal bool
		if next < len(s.st.buf) {
			ev = Event{Value: s.st.buf[next]}
			next++
		} else {
			// done, buffer drained
			if s.st.err == nil {
				s.st.mu.Unlock()
				return
			}
			ev = Event{Err: s.st.err}
			terminal = true
		}
		s.st.mu.Unlock()

		select {
		case s.ch <- ev:
		case <-s.stop:
			return
		}
		if terminal {
			return
		}
	}
}
