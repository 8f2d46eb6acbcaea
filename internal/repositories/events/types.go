package events

import "github.com/KirkDiggler/teamtrivia/internal/models"

type AppendEventInput struct {
	Code  string
	Event *models.Event
}

type ListEventsInput struct {
	Code string
}

type ClearEventsInput struct {
	Code string
}

type FollowEventsInput struct {
	Code    string
	OnEvent func(*models.Event)

	// OnDecodeError is called for entries that are not valid events
	OnDecodeError func(key string, err error)
}
