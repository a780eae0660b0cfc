package player

import (
	"sync"
	"time"

	"github.com/dashtune/dashtune/catalog"
)

// State is the transport state of a playback session.
type State int

const (
	// StateStopped means no track is active.
	StateStopped State = iota
	// StatePlaying means the current track is advancing.
	StatePlaying
	// StatePaused means the current track is held at its position.
	StatePaused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Transition describes a state change delivered to listeners.
type Transition struct {
	From  State
	To    State
	Track catalog.Track
}

// Listener receives state transitions. Listeners run synchronously on the
// goroutine that triggered the change and must not call back into the
// session.
type Listener func(Transition)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithListener registers a transition listener.
func WithListener(l Listener) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// withClock overrides the time source. Tests only.
func withClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// Session is the transport state machine over a Queue. Position tracking
// uses the monotonic clock: Position never goes backwards except on seek,
// track change, or stop.
type Session struct {
	queue     *Queue
	listeners []Listener
	now       func() time.Time

	mu          sync.Mutex
	state       State
	startedAt   time.Time     // start of the current playing stretch
	accumulated time.Duration // position at last pause or seek
}

// NewSession creates a stopped session over the given queue.
func NewSession(queue *Queue, opts ...SessionOption) *Session {
	s := &Session{
		queue: queue,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Queue returns the session's queue.
func (s *Session) Queue() *Queue {
	return s.queue
}

// State returns the current transport state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the track at the queue's current position.
func (s *Session) Current() (catalog.Track, bool) {
	return s.queue.Current()
}

// Position returns the playback position within the current track.
func (s *Session) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Session) positionLocked() time.Duration {
	if s.state == StatePlaying {
		return s.accumulated + s.now().Sub(s.startedAt)
	}
	return s.accumulated
}

// Play starts the current queue track from the beginning.
func (s *Session) Play() error {
	track, ok := s.queue.Current()
	if !ok {
		return ErrQueueEmpty
	}

	s.mu.Lock()
	from := s.state
	s.state = StatePlaying
	s.accumulated = 0
	s.startedAt = s.now()
	s.mu.Unlock()

	s.notify(from, StatePlaying, track)
	return nil
}

// Pause holds the current track at its position.
func (s *Session) Pause() error {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return ErrNotPlaying
	}
	s.accumulated = s.positionLocked()
	s.state = StatePaused
	s.mu.Unlock()

	track, _ := s.queue.Current()
	s.notify(StatePlaying, StatePaused, track)
	return nil
}

// Resume continues a paused track from its held position.
func (s *Session) Resume() error {
	s.mu.Lock()
	if s.state != StatePaused {
		s.mu.Unlock()
		return ErrNotPaused
	}
	s.state = StatePlaying
	s.startedAt = s.now()
	s.mu.Unlock()

	track, _ := s.queue.Current()
	s.notify(StatePaused, StatePlaying, track)
	return nil
}

// Stop ends playback and resets the position. Stopping a stopped session
// is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	from := s.state
	s.state = StateStopped
	s.accumulated = 0
	s.mu.Unlock()

	track, _ := s.queue.Current()
	s.notify(from, StateStopped, track)
}

// Next skips to the following queue track. When playing or paused, the new
// track starts playing from the beginning.
func (s *Session) Next() (catalog.Track, error) {
	track, err := s.queue.Next()
	if err != nil {
		return catalog.Track{}, err
	}
	s.restartOn(track)
	return track, nil
}

// Previous skips to the preceding queue track. When playing or paused, the
// new track starts playing from the beginning.
func (s *Session) Previous() (catalog.Track, error) {
	track, err := s.queue.Previous()
	if err != nil {
		return catalog.Track{}, err
	}
	s.restartOn(track)
	return track, nil
}

// TrackEnded advances per the queue's repeat mode when the current track
// finishes. At the end of the queue the session stops.
func (s *Session) TrackEnded() (catalog.Track, error) {
	track, err := s.queue.Advance()
	if err != nil {
		s.Stop()
		return catalog.Track{}, err
	}
	s.restartOn(track)
	return track, nil
}

// restartOn resets the position for a track change and keeps the session
// playing if it was playing or paused.
func (s *Session) restartOn(track catalog.Track) {
	s.mu.Lock()
	from := s.state
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.state = StatePlaying
	s.accumulated = 0
	s.startedAt = s.now()
	s.mu.Unlock()

	if from != StatePlaying {
		s.notify(from, StatePlaying, track)
	}
}

// SeekTo moves the position within the current track. Negative positions
// clamp to zero.
func (s *Session) SeekTo(pos time.Duration) error {
	if pos < 0 {
		pos = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateStopped {
		return ErrStopped
	}
	s.accumulated = pos
	s.startedAt = s.now()
	return nil
}

func (s *Session) notify(from, to State, track catalog.Track) {
	if from == to {
		return
	}
	for _, l := range s.listeners {
		l(Transition{From: from, To: to, Track: track})
	}
}
