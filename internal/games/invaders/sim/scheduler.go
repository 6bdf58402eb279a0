package sim

// EventKind identifies a deferred gameplay event.
type EventKind uint8

const (
	EventVolleyShot  EventKind = iota // One shot of a special volley
	EventRespawn                      // Bring the defender back after a hit
	EventCelebration                  // One burst of the final-victory show
)

// Event is a deferred action waiting in the scheduler.
type Event struct {
	Kind      EventKind
	Remaining float64 // Seconds until due
	X, Y      float64 // Optional position payload

	generation uint64
}

// Scheduler queues events with countdowns. Due events are handed back at
// the start of a tick so they merge into the simulation at a fixed point.
// Cancel bumps the generation, which invalidates everything queued before.
type Scheduler struct {
	pending    []Event
	generation uint64
}

// After queues an event due in delay seconds.
func (s *Scheduler) After(delay float64, ev Event) {
	ev.Remaining = delay
	ev.generation = s.generation
	s.pending = append(s.pending, ev)
}

// Advance counts every pending event down by dt and returns the ones that
// came due, in the order they were queued.
func (s *Scheduler) Advance(dt float64) []Event {
	var due []Event
	kept := s.pending[:0]
	for _, ev := range s.pending {
		if ev.generation != s.generation {
			continue
		}
		ev.Remaining -= dt
		if ev.Remaining <= 0 {
			due = append(due, ev)
			continue
		}
		kept = append(kept, ev)
	}
	s.pending = kept
	return due
}

// Cancel drops every pending event.
func (s *Scheduler) Cancel() {
	s.generation++
	s.pending = s.pending[:0]
}

// Pending returns the number of queued events.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Generation returns the current generation counter.
func (s *Scheduler) Generation() uint64 {
	return s.generation
}
