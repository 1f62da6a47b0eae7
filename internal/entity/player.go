package entity

import (
	"github.com/rocketscienceinc/tilewars-backend/internal/apperror"
)

// CapturedTile records a tile displaced from an opponent.
type CapturedTile struct {
	Owner     string `json:"owner"`
	Character string `json:"character"`
}

// Player is the per-participant state inside one game: the 5-slot hand,
// the hidden draw pool and the tiles captured from opponents.
type Player struct {
	ID       string
	Name     string
	Hand     [HandSize]string
	Captured []CapturedTile

	drawPool []string
}

// NewPlayer - deals the opening hand from a freshly shuffled bag.
func NewPlayer(id, name string) *Player {
	bag := NewTileBag()

	player := &Player{
		ID:       id,
		Name:     name,
		drawPool: bag[:len(bag)-HandSize],
	}
	copy(player.Hand[:], bag[len(bag)-HandSize:])

	return player
}

// DrawReplacement - pops one tile from the tail of the draw pool into the
// vacated hand slot and returns it. An empty pool is an invariant
// violation: the pool is sized to cover every draw of a full game.
func (that *Player) DrawReplacement(slot int) (string, error) {
	if len(that.drawPool) == 0 {
		return "", apperror.ErrPoolExhausted
	}

	tile := that.drawPool[len(that.drawPool)-1]
	that.drawPool = that.drawPool[:len(that.drawPool)-1]
	that.Hand[slot] = tile

	return tile, nil
}

// RecordCapture - remembers a displaced opponent tile for end-game
// tie-breaking.
func (that *Player) RecordCapture(tile CapturedTile) {
	that.Captured = append(that.Captured, tile)
}

// PoolSize - returns the number of tiles left in the draw pool.
func (that *Player) PoolSize() int {
	return len(that.drawPool)
}
