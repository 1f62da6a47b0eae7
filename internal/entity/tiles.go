package entity

import "math/rand"

// The tile alphabet: a letter may only sit in its own column, a number in
// its own row, a symbol in its own 3x3 block. The wildcard goes anywhere.
var (
	Letters = [BoardSize]string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	Numbers = [BoardSize]string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
	Symbols = [BoardSize]string{"%", "^", "&", "*", "(", "#", "@", "/", "_"}
)

const Wildcard = "$"

// HandSize is the number of tiles a player can choose from on every turn.
const HandSize = 5

// NewTileBag - returns a freshly shuffled bag holding one of each tile:
// nine letters, nine numbers, nine symbols and the wildcard.
func NewTileBag() []string {
	bag := make([]string, 0, len(Letters)+len(Numbers)+len(Symbols)+1)
	bag = append(bag, Letters[:]...)
	bag = append(bag, Numbers[:]...)
	bag = append(bag, Symbols[:]...)
	bag = append(bag, Wildcard)

	rand.Shuffle(len(bag), func(i, j int) { //nolint: gosec // not used for security
		bag[i], bag[j] = bag[j], bag[i]
	})

	return bag
}
