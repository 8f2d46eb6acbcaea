package uuid

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/teamtrivia/internal/common/uuid UUID

import "github.com/google/uuid"

// UUID issues participant ids. An id is never reused, so a client that
// reconnects without its old id joins as a new participant.
type UUID interface {
	NewUUID() string
}

// DefaultUUID issues random version 4 ids
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

func (d *DefaultUUID) NewUUID() string {
	return uuid.NewString()
}
