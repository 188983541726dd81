package domain

import "time"

// Sheet is a named ledger owned by the collaborator layer.
// Version increases by one on every applied mutation.
type Sheet struct {
	ID        string
	Name      string
	Ledger    Ledger
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch records a mutation applied at the given time.
func (s *Sheet) Touch(at time.Time) {
	s.Version++
	s.UpdatedAt = at
}
