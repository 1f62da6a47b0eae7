package tilewars

import (
	"fmt"

	"github.com/rocketscienceinc/tilewars-backend/internal/apperror"
	"github.com/rocketscienceinc/tilewars-backend/internal/entity"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	MinPlayers = 2
	MaxPlayers = 5

	// turnBudget is the number of rounds each participant plays. The bag
	// holds 28 tiles and the opening hand takes 5, which leaves exactly
	// one replacement draw for each of the 23 moves.
	turnBudget = 23
)

const (
	OutcomeWin = "win"
	OutcomeTie = "tie"
)

// Game is the turn engine of one room: the board, the players in join
// order and the running/finished state. All mutation goes through
// AddPlayer, Start, SubmitMove and End; the caller serializes access.
type Game struct {
	ID    string
	Board entity.Board

	players         map[string]*entity.Player
	turnOrder       []string
	activeIndex     int
	remainingRounds int
	status          string
}

func NewGame(id string) *Game {
	return &Game{
		ID:              id,
		players:         make(map[string]*entity.Player),
		remainingRounds: turnBudget,
		status:          StatusWaiting,
	}
}

// MoveResult is the outcome of one committed move. NextActive is empty
// when the move ended the game.
type MoveResult struct {
	Drawn      string
	Placed     string
	Displaced  *entity.CapturedTile
	X, Y       int
	NextActive string
}

// Outcome is the end-of-game resolution.
type Outcome struct {
	Kind    string
	Winners []string
}

// AddPlayer - registers a participant while the game is still in the
// lobby. Returns false once the game has started or the room is full.
func (that *Game) AddPlayer(id, name string) bool {
	if that.status != StatusWaiting || len(that.turnOrder) >= MaxPlayers {
		return false
	}

	that.players[id] = entity.NewPlayer(id, name)
	that.turnOrder = append(that.turnOrder, id)

	return true
}

// Start - transitions the lobby to a running game with the first joiner
// as the active participant. Returns false with no state change if fewer
// than two participants joined or the game already started.
func (that *Game) Start() bool {
	if that.status != StatusWaiting || len(that.turnOrder) < MinPlayers {
		return false
	}

	that.status = StatusOngoing
	that.activeIndex = 0

	return true
}

// ActivePlayer - returns the participant whose turn it is, or an empty
// string when the game is not running.
func (that *Game) ActivePlayer() string {
	if that.status != StatusOngoing {
		return ""
	}

	return that.turnOrder[that.activeIndex]
}

// Player - looks up a participant's in-game state.
func (that *Game) Player(id string) (*entity.Player, bool) {
	player, ok := that.players[id]
	return player, ok
}

// PlayerCount - returns the number of participants in the room.
func (that *Game) PlayerCount() int {
	return len(that.turnOrder)
}

// PlayerNames - returns the participant -> display name mapping.
func (that *Game) PlayerNames() map[string]string {
	names := make(map[string]string, len(that.turnOrder))
	for id, player := range that.players {
		names[id] = player.Name
	}

	return names
}

// TilesTaken - returns the captured tiles of every participant.
func (that *Game) TilesTaken() map[string][]entity.CapturedTile {
	taken := make(map[string][]entity.CapturedTile, len(that.turnOrder))
	for id, player := range that.players {
		taken[id] = player.Captured
	}

	return taken
}

func (that *Game) IsWaiting() bool {
	return that.status == StatusWaiting
}

func (that *Game) IsOngoing() bool {
	return that.status == StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.status == StatusFinished
}

// SubmitMove - validates and commits one move for participant: the tile
// in hand slot is placed at (x, y), a replacement is drawn and the turn
// advances. The first failing check wins and leaves the game untouched.
func (that *Game) SubmitMove(participant string, slot, x, y int) (*MoveResult, error) {
	if that.status != StatusOngoing {
		return nil, apperror.ErrGameNotRunning
	}

	if participant != that.ActivePlayer() {
		return nil, apperror.ErrNotYourTurn
	}

	if !entity.InRange(x, y) {
		return nil, fmt.Errorf("%w: cell (%d, %d)", apperror.ErrIllegalPlacement, x, y)
	}

	if slot < 0 || slot >= entity.HandSize {
		return nil, fmt.Errorf("%w: selection %d", apperror.ErrIllegalPlacement, slot)
	}

	player := that.players[participant]
	character := player.Hand[slot]

	if !that.Board.IsLegalCharacter(x, y, character) {
		return nil, apperror.ErrIllegalPlacement
	}

	var displaced *entity.CapturedTile
	if owner := that.Board.Owner(x, y); owner != entity.EmptyOwner {
		if owner == participant {
			return nil, apperror.ErrCannotReplaceOwnTile
		}

		if WouldSplit(&that.Board, x, y) {
			return nil, apperror.ErrWouldSplitGroup
		}

		displaced = &entity.CapturedTile{Owner: owner, Character: that.Board.Character(x, y)}
		player.RecordCapture(*displaced)
	}

	that.Board.Place(x, y, participant, character)

	drawn, err := player.DrawReplacement(slot)
	if err != nil {
		return nil, fmt.Errorf("draw replacement into slot %d: %w", slot, err)
	}

	next := that.advanceTurn()
	if next == "" {
		that.status = StatusFinished
	}

	return &MoveResult{
		Drawn:      drawn,
		Placed:     character,
		Displaced:  displaced,
		X:          x,
		Y:          y,
		NextActive: next,
	}, nil
}

// advanceTurn - moves to the next participant in join order and, on a
// wrap, spends one round. Returns an empty string when the round budget
// is used up.
func (that *Game) advanceTurn() string {
	if that.activeIndex < len(that.turnOrder)-1 {
		that.activeIndex++
	} else {
		that.activeIndex = 0
		that.remainingRounds--
	}

	if that.remainingRounds == 0 {
		return ""
	}

	return that.turnOrder[that.activeIndex]
}

// End - resolves the finished game. The most consolidated territory wins:
// fewest groups first, then fewest captured tiles among those, otherwise
// a tie between the remaining candidates.
func (that *Game) End() Outcome {
	that.status = StatusFinished

	candidates := minimalBy(that.turnOrder, func(id string) int {
		return CountGroups(&that.Board, id)
	})
	if len(candidates) == 1 {
		return Outcome{Kind: OutcomeWin, Winners: candidates}
	}

	candidates = minimalBy(candidates, func(id string) int {
		return len(that.players[id].Captured)
	})
	if len(candidates) == 1 {
		return Outcome{Kind: OutcomeWin, Winners: candidates}
	}

	return Outcome{Kind: OutcomeTie, Winners: candidates}
}

// ReassignPlayer - rebinds a participant's player state, turn-order slot
// and board territory to a new identifier. Returns false if the old
// identifier is not part of this game.
func (that *Game) ReassignPlayer(oldID, newID string) bool {
	player, ok := that.players[oldID]
	if !ok {
		return false
	}

	delete(that.players, oldID)
	player.ID = newID
	that.players[newID] = player

	for i, id := range that.turnOrder {
		if id == oldID {
			that.turnOrder[i] = newID
		}
	}

	that.Board.ReplaceOwner(oldID, newID)

	return true
}

func minimalBy(ids []string, score func(string) int) []string {
	var minimal []string

	best := 0
	for _, id := range ids {
		current := score(id)

		switch {
		case len(minimal) == 0 || current < best:
			minimal = []string{id}
			best = current
		case current == best:
			minimal = append(minimal, id)
		}
	}

	return minimal
}
