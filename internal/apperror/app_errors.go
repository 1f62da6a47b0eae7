package apperror

import "errors"

var (
	ErrRoomNotFound         = errors.New("room does not exist")
	ErrRoomFull             = errors.New("room is full or the game has already started")
	ErrGameNotRunning       = errors.New("the game is not currently running")
	ErrNotYourTurn          = errors.New("it is not your turn")
	ErrIllegalPlacement     = errors.New("this symbol cannot be placed here")
	ErrCannotReplaceOwnTile = errors.New("you cannot replace your own tile")
	ErrWouldSplitGroup      = errors.New("you cannot split groups in two")
	ErrInsufficientPlayers  = errors.New("not enough players to start the game")
	ErrPoolExhausted        = errors.New("draw pool is exhausted")
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrSessionNotFound      = errors.New("session not found")
)

// Reason - maps a rule violation to the identifier sent to the client.
// Anything outside the taxonomy is reported as internal so a raw fault
// never reaches a participant.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room-not-found"
	case errors.Is(err, ErrRoomFull):
		return "room-full-or-started"
	case errors.Is(err, ErrGameNotRunning):
		return "game-not-running"
	case errors.Is(err, ErrNotYourTurn):
		return "not-your-turn"
	case errors.Is(err, ErrIllegalPlacement):
		return "illegal-placement"
	case errors.Is(err, ErrCannotReplaceOwnTile):
		return "cannot-replace-own-tile"
	case errors.Is(err, ErrWouldSplitGroup):
		return "would-split-group"
	case errors.Is(err, ErrInsufficientPlayers):
		return "insufficient-players-to-start"
	case errors.Is(err, ErrPoolExhausted):
		return "pool-exhausted"
	case errors.Is(err, ErrUnknownParticipant):
		return "unknown-participant"
	default:
		return "internal"
	}
}
