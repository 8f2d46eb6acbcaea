package models

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Structural errors are surfaced to the initiating actor only.
const (
	ErrRoomNotFound        GameError = "room not found"
	ErrGameAlreadyStarted  GameError = "game already started"
	ErrRotationEmpty       GameError = "no team has any members"
	ErrNotEnoughPlayers    GameError = "not enough players have joined a team"
	ErrNotArbiter          GameError = "only the room arbiter can do that"
	ErrUnknownTeam         GameError = "unknown team"
	ErrParticipantNotFound GameError = "participant not found"
	ErrRejoinDenied        GameError = "rejoin token does not match"
	ErrStoreUnavailable    GameError = "shared state store unavailable"
)

// Legality errors are the normal outcome of several clients racing for the
// same transition. They are reported as skip reasons, never returned.
const (
	ErrNotYourTurn GameError = "not your turn"
	ErrStaleRound  GameError = "stale round"
)
