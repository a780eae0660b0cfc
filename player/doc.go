// Package player holds the playback queue and transport-control state.
//
// Queue keeps the ordered track list with shuffle and repeat semantics;
// Session is the transport state machine (stopped, playing, paused) with
// monotonic position tracking. Neither touches audio: decoding and
// buffering happen elsewhere, this package only models what the user
// controls.
//
//	q := player.NewQueue(tracks...)
//	s := player.NewSession(q)
//
//	if err := s.Play(); err != nil {
//	    return err
//	}
//	s.Pause()
//	s.Resume()
//	_, _ = s.Next()
package player
