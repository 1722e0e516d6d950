package sessions

import "time"

// SetClock replaces the store's time source.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// SetIDSource replaces the store's id generator.
func (s *Store) SetIDSource(newID func() string) {
	s.newID = newID
}
