package entity

import (
	"errors"
	"fmt"
)

const BoardSize = 9

var ErrOutOfRange = errors.New("cell is out of range")

const EmptyOwner = ""

// Cell is a single board position. The zero value is an empty cell.
type Cell struct {
	Owner     string `json:"owner"`
	Character string `json:"character"`
}

// Board is the 9x9 grid, indexed [x][y]. It carries no game rules beyond
// cell classification; move legality lives in the turn engine.
type Board [BoardSize][BoardSize]Cell

// InRange - reports whether (x, y) is on the board.
func InRange(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// IsOccupied - reports whether the cell already has an owner.
func (that *Board) IsOccupied(x, y int) (bool, error) {
	if !InRange(x, y) {
		return false, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}

	return that[x][y].Owner != EmptyOwner, nil
}

// Owner - returns the owner of the cell, or EmptyOwner for a free cell.
func (that *Board) Owner(x, y int) string {
	return that[x][y].Owner
}

// Character - returns the character placed on the cell.
func (that *Board) Character(x, y int) string {
	return that[x][y].Character
}

// LegalCharacters - returns the characters a mover may place at (x, y):
// the row number, the column letter, the block symbol and the wildcard.
func (that *Board) LegalCharacters(x, y int) []string {
	return []string{Numbers[x], Letters[y], Symbols[blockIndex(x, y)], Wildcard}
}

// IsLegalCharacter - reports whether character may be placed at (x, y).
func (that *Board) IsLegalCharacter(x, y int, character string) bool {
	for _, legal := range that.LegalCharacters(x, y) {
		if character == legal {
			return true
		}
	}

	return false
}

// Place - writes the tile unconditionally. Callers must have validated
// legality; any prior occupant is overwritten.
func (that *Board) Place(x, y int, owner, character string) {
	that[x][y] = Cell{Owner: owner, Character: character}
}

// ReplaceOwner - hands every cell of oldOwner to newOwner. Used when a
// reconnecting participant is remapped to a new identity.
func (that *Board) ReplaceOwner(oldOwner, newOwner string) {
	for x := range that {
		for y := range that[x] {
			if that[x][y].Owner == oldOwner {
				that[x][y].Owner = newOwner
			}
		}
	}
}

func blockIndex(x, y int) int {
	return 3*(x/3) + y/3
}
