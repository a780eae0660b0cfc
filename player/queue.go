package player

import (
	"math/rand"
	"sync"

	"github.com/dashtune/dashtune/catalog"
)

// RepeatMode controls what happens when the queue runs out.
type RepeatMode int

const (
	// RepeatOff stops at the end of the queue.
	RepeatOff RepeatMode = iota
	// RepeatAll wraps around to the first track.
	RepeatAll
	// RepeatOne replays the current track on auto-advance.
	RepeatOne
)

// String returns the string representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// Queue is an ordered track list with a current position, shuffle, and
// repeat modes. All methods are safe for concurrent use.
type Queue struct {
	mu       sync.Mutex
	tracks   []catalog.Track
	original []catalog.Track // pre-shuffle order, nil when not shuffled
	current  int             // -1 when empty
	repeat   RepeatMode
}

// NewQueue creates a queue over the given tracks. The first track is
// current.
func NewQueue(tracks ...catalog.Track) *Queue {
	q := &Queue{current: -1}
	if len(tracks) > 0 {
		q.tracks = append(q.tracks, tracks...)
		q.current = 0
	}
	return q
}

// Replace swaps the queue contents and positions it at startAt. Shuffle
// state is reset.
func (q *Queue) Replace(tracks []catalog.Track, startAt int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(tracks) == 0 {
		q.tracks = nil
		q.original = nil
		q.current = -1
		return nil
	}
	if startAt < 0 || startAt >= len(tracks) {
		return ErrInvalidIndex
	}

	q.tracks = append([]catalog.Track(nil), tracks...)
	q.original = nil
	q.current = startAt
	return nil
}

// Append adds tracks to the end of the queue. While shuffle is on, the
// tracks also join the saved original order so they survive un-shuffling.
func (q *Queue) Append(tracks ...catalog.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tracks = append(q.tracks, tracks...)
	if q.original != nil {
		q.original = append(q.original, tracks...)
	}
	if q.current < 0 && len(q.tracks) > 0 {
		q.current = 0
	}
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}

// Index returns the current position, -1 when the queue is empty.
func (q *Queue) Index() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// Tracks returns a copy of the queue in play order.
func (q *Queue) Tracks() []catalog.Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]catalog.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Current returns the track at the current position.
func (q *Queue) Current() (catalog.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.currentLocked()
}

func (q *Queue) currentLocked() (catalog.Track, bool) {
	if q.current < 0 || q.current >= len(q.tracks) {
		return catalog.Track{}, false
	}
	return q.tracks[q.current], true
}

// JumpTo moves the current position to i.
func (q *Queue) JumpTo(i int) (catalog.Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if i < 0 || i >= len(q.tracks) {
		return catalog.Track{}, ErrInvalidIndex
	}
	q.current = i
	return q.tracks[i], nil
}

// Next moves to the following track. This is the explicit user skip:
// RepeatOne does not pin the track here, only RepeatAll wrapping applies.
func (q *Queue) Next() (catalog.Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.nextLocked()
}

func (q *Queue) nextLocked() (catalog.Track, error) {
	if len(q.tracks) == 0 {
		return catalog.Track{}, ErrQueueEmpty
	}
	if q.current+1 < len(q.tracks) {
		q.current++
		return q.tracks[q.current], nil
	}
	if q.repeat == RepeatAll {
		q.current = 0
		return q.tracks[0], nil
	}
	return catalog.Track{}, ErrEndOfQueue
}

// Previous moves to the preceding track, wrapping to the last track under
// RepeatAll.
func (q *Queue) Previous() (catalog.Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return catalog.Track{}, ErrQueueEmpty
	}
	if q.current > 0 {
		q.current--
		return q.tracks[q.current], nil
	}
	if q.repeat == RepeatAll {
		q.current = len(q.tracks) - 1
		return q.tracks[q.current], nil
	}
	return catalog.Track{}, ErrEndOfQueue
}

// Advance moves to the track that should play after the current one ends.
// Unlike Next, RepeatOne replays the current track.
func (q *Queue) Advance() (catalog.Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.repeat == RepeatOne {
		if track, ok := q.currentLocked(); ok {
			return track, nil
		}
		return catalog.Track{}, ErrQueueEmpty
	}
	return q.nextLocked()
}

// SetRepeat sets the repeat mode.
func (q *Queue) SetRepeat(mode RepeatMode) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.repeat = mode
}

// Repeat returns the repeat mode.
func (q *Queue) Repeat() RepeatMode {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repeat
}

// SetShuffle turns shuffle on or off. Turning it on keeps the current
// track current and randomizes the order of the rest; turning it off
// restores the original order with the current track still current.
func (q *Queue) SetShuffle(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if on == (q.original != nil) || len(q.tracks) == 0 {
		return
	}

	if on {
		q.original = q.tracks
		shuffled := make([]catalog.Track, 0, len(q.tracks))
		shuffled = append(shuffled, q.tracks[q.current])
		for i, t := range q.tracks {
			if i != q.current {
				shuffled = append(shuffled, t)
			}
		}
		rest := shuffled[1:]
		rand.Shuffle(len(rest), func(i, j int) {
			rest[i], rest[j] = rest[j], rest[i]
		})
		q.tracks = shuffled
		q.current = 0
		return
	}

	current, _ := q.currentLocked()
	q.tracks = q.original
	q.original = nil
	q.current = 0
	for i, t := range q.tracks {
		if t.ID == current.ID {
			q.current = i
			break
		}
	}
}

// Shuffled reports whether shuffle is on.
func (q *Queue) Shuffled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.original != nil
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tracks = nil
	q.original = nil
	q.current = -1
}
