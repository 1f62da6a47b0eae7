package tilewars

import (
	"github.com/rocketscienceinc/tilewars-backend/internal/entity"
)

// placeholderOwner marks a hypothetically vacated cell in WouldSplit. It
// can never collide with a real participant identifier.
const placeholderOwner = "\x00"

// CountGroups - counts the maximal 4-connected regions of cells owned by
// owner. The board is scanned row-major; each region is flooded through a
// separate visited set, so the board itself is never mutated.
func CountGroups(board *entity.Board, owner string) int {
	if owner == entity.EmptyOwner {
		return 0
	}

	var visited [entity.BoardSize][entity.BoardSize]bool

	groups := 0
	for x := 0; x < entity.BoardSize; x++ {
		for y := 0; y < entity.BoardSize; y++ {
			if visited[x][y] || board.Owner(x, y) != owner {
				continue
			}

			groups++
			floodFill(board, &visited, x, y, owner)
		}
	}

	return groups
}

// floodFill - marks the whole region around (x, y) visited, walking the 4
// orthogonal neighbours that share the same owner.
func floodFill(board *entity.Board, visited *[entity.BoardSize][entity.BoardSize]bool, x, y int, owner string) {
	stack := [][2]int{{x, y}}
	visited[x][y] = true

	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, next := range [][2]int{
			{cell[0] - 1, cell[1]},
			{cell[0] + 1, cell[1]},
			{cell[0], cell[1] - 1},
			{cell[0], cell[1] + 1},
		} {
			nx, ny := next[0], next[1]
			if !entity.InRange(nx, ny) || visited[nx][ny] || board.Owner(nx, ny) != owner {
				continue
			}

			visited[nx][ny] = true
			stack = append(stack, next)
		}
	}
}

// WouldSplit - reports whether taking the tile at (x, y) away from its
// owner would fragment that owner's territory into more groups. The check
// runs on a copy with the cell handed to a placeholder owner, so the live
// board stays untouched when the move is rejected.
func WouldSplit(board *entity.Board, x, y int) bool {
	owner := board.Owner(x, y)
	if owner == entity.EmptyOwner {
		return false
	}

	snapshot := *board
	snapshot.Place(x, y, placeholderOwner, placeholderOwner)

	return CountGroups(&snapshot, owner) > CountGroups(board, owner)
}
