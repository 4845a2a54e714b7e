package entity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource returns its picks in order, modulo n.
type scriptedSource struct {
	picks []int
}

func (that *scriptedSource) Intn(n int) int {
	if len(that.picks) == 0 {
		return 0
	}
	pick := that.picks[0]
	that.picks = that.picks[1:]

	return pick % n
}

func gameWithMarks(cursor int, player []int, opponent []int) *BoardGame {
	game := NewBoardGame()
	for _, i := range player {
		game.board[i] = PlayerMark
	}
	for _, i := range opponent {
		game.board[i] = OpponentMark
	}
	game.cursor = cursor

	return game
}

// apply plays one key press the way the session loop does.
func apply(game *BoardGame, action Action, rng RandomSource) {
	switch action.Kind {
	case ActionMove:
		game.MoveCursor(action.Direction)
	case ActionCommit:
		if game.IsGameOver() {
			return
		}
		game.CommitPlayerMark()
		game.CommitOpponentMark(rng)
	}
}

func requireInvariants(t *testing.T, game *BoardGame) {
	t.Helper()

	overlays := 0
	for _, cell := range game.board {
		if cell == CursorOverlay {
			overlays++
		}
	}
	require.LessOrEqual(t, overlays, 1, "more than one cursor overlay")

	if cursor, ok := game.Cursor(); ok {
		require.True(t, game.board[cursor].IsFree(), "cursor on marked cell %d", cursor)
	}

	if game.IsGameOver() {
		_, ok := game.Cursor()
		require.False(t, ok, "cursor still on board after game over")
	}
}

func TestNewBoardGame(t *testing.T) {
	// When: create a new game
	game := NewBoardGame()

	// Then: the board is empty, the cursor is on the first cell and the game is running
	require.NotNil(t, game)
	assert.Equal(t, [BoardSize]Cell{}, game.Cells())

	cursor, ok := game.Cursor()
	assert.True(t, ok)
	assert.Equal(t, 0, cursor)
	assert.False(t, game.IsGameOver())
}

func TestBoardGame_MoveCursor(t *testing.T) {
	t.Run("Down skips a full middle row", func(t *testing.T) {
		// Given: the middle row is marked and the cursor is on 0
		game := gameWithMarks(0, []int{3, 4, 5}, nil)

		// When: moving down
		game.MoveCursor(Down)

		// Then: the cursor lands on the first free cell of the bottom row
		cursor, _ := game.Cursor()
		assert.Equal(t, 6, cursor)
	})

	t.Run("Down scans the bottom row", func(t *testing.T) {
		// Given: the middle row is marked and the opponent holds 6 and 7
		game := gameWithMarks(0, []int{3, 4, 5}, []int{6, 7})

		// When: moving down
		game.MoveCursor(Down)

		// Then: the cursor lands on 8
		cursor, _ := game.Cursor()
		assert.Equal(t, 8, cursor)
	})

	t.Run("Up skips a full middle row", func(t *testing.T) {
		// Given: the middle row is marked and the cursor is on 8
		game := gameWithMarks(8, []int{3, 4, 5}, nil)

		// When: moving up
		game.MoveCursor(Up)

		// Then: the cursor lands on 2
		cursor, _ := game.Cursor()
		assert.Equal(t, 2, cursor)
	})

	t.Run("Down scans the candidate row before going further", func(t *testing.T) {
		// Given: only cell 4 is marked and the cursor is on 1
		game := gameWithMarks(1, []int{4}, nil)

		// When: moving down
		game.MoveCursor(Down)

		// Then: the cursor takes the first free cell of the middle row
		cursor, _ := game.Cursor()
		assert.Equal(t, 3, cursor)
	})

	t.Run("Down stays when no row below has room", func(t *testing.T) {
		// Given: both lower rows are full
		game := gameWithMarks(1, []int{3, 4, 5}, []int{6, 7, 8})

		// When: moving down
		game.MoveCursor(Down)

		// Then: the cursor does not move
		cursor, _ := game.Cursor()
		assert.Equal(t, 1, cursor)
	})

	t.Run("Up from the top row is a no-op", func(t *testing.T) {
		// Given: the cursor is on the top row
		game := gameWithMarks(2, nil, nil)

		// When: moving up
		game.MoveCursor(Up)

		// Then: the cursor does not move
		cursor, _ := game.Cursor()
		assert.Equal(t, 2, cursor)
	})

	t.Run("Left skips a marked cell", func(t *testing.T) {
		// Given: cell 1 is marked and the cursor is on 2
		game := gameWithMarks(2, []int{1}, nil)

		// When: moving left
		game.MoveCursor(Left)

		// Then: the cursor lands on 0
		cursor, _ := game.Cursor()
		assert.Equal(t, 0, cursor)
	})

	t.Run("Left stops at the row boundary", func(t *testing.T) {
		// Given: cells 3 and 4 are marked and the cursor is on 5
		game := gameWithMarks(5, []int{3}, []int{4})

		// When: moving left
		game.MoveCursor(Left)

		// Then: the cursor does not move
		cursor, _ := game.Cursor()
		assert.Equal(t, 5, cursor)
	})

	t.Run("Left never wraps to the previous row", func(t *testing.T) {
		// Given: the cursor is on 3 and row 0 is free
		game := gameWithMarks(3, nil, nil)

		// When: moving left
		game.MoveCursor(Left)

		// Then: the cursor does not move
		cursor, _ := game.Cursor()
		assert.Equal(t, 3, cursor)
	})

	t.Run("Right skips a marked cell", func(t *testing.T) {
		// Given: cell 7 is marked and the cursor is on 6
		game := gameWithMarks(6, nil, []int{7})

		// When: moving right
		game.MoveCursor(Right)

		// Then: the cursor lands on 8
		cursor, _ := game.Cursor()
		assert.Equal(t, 8, cursor)
	})

	t.Run("Right stops at the row boundary", func(t *testing.T) {
		// Given: cells 1 and 2 are marked and the cursor is on 0
		game := gameWithMarks(0, []int{1, 2}, nil)

		// When: moving right
		game.MoveCursor(Right)

		// Then: the cursor does not move
		cursor, _ := game.Cursor()
		assert.Equal(t, 0, cursor)
	})

	t.Run("Moves are ignored after game over", func(t *testing.T) {
		// Given: a finished game
		game := gameWithMarks(noCursor, nil, nil)
		game.gameOver = true

		// When: moving in every direction
		for _, d := range []Direction{Up, Down, Left, Right} {
			game.MoveCursor(d)
		}

		// Then: the cursor stays off the board
		_, ok := game.Cursor()
		assert.False(t, ok)
	})
}

func TestBoardGame_MoveCursorRoundTrip(t *testing.T) {
	pairs := [][2]Direction{{Up, Down}, {Down, Up}, {Left, Right}, {Right, Left}}

	for _, pair := range pairs {
		for start := 0; start < BoardSize; start++ {
			if step(start, pair[0]) == start {
				continue
			}

			// Given: an empty board with the cursor on start
			game := gameWithMarks(start, nil, nil)

			// When: moving there and back
			game.MoveCursor(pair[0])
			game.MoveCursor(pair[1])

			// Then: the cursor is back where it started
			cursor, _ := game.Cursor()
			assert.Equal(t, start, cursor, "%s then %s from %d", pair[0], pair[1], start)
		}
	}
}

func TestBoardGame_CommitPlayerMark(t *testing.T) {
	t.Run("Marks the cursor cell and relocates", func(t *testing.T) {
		// Given: a new game with the overlay painted
		game := NewBoardGame()
		game.ReconcileOverlay()

		// When: the player commits
		game.CommitPlayerMark()

		// Then: cell 0 holds the mark and the cursor moved to 1
		assert.Equal(t, PlayerMark, game.Cells()[0])
		cursor, ok := game.Cursor()
		require.True(t, ok)
		assert.Equal(t, 1, cursor)
		assert.False(t, game.IsGameOver())
	})

	t.Run("Relocates to the lowest free index", func(t *testing.T) {
		// Given: low cells are taken and the cursor is on 8
		game := gameWithMarks(8, []int{0, 1}, []int{2, 3})

		// When: the player commits
		game.CommitPlayerMark()

		// Then: the cursor moves to 4
		cursor, _ := game.Cursor()
		assert.Equal(t, 4, cursor)
	})

	t.Run("Filling the board ends the game", func(t *testing.T) {
		// Given: only cell 4 is free
		game := gameWithMarks(4, []int{0, 2, 6, 8}, []int{1, 3, 5, 7})

		// When: the player commits
		game.CommitPlayerMark()

		// Then: the game is over and the cursor is off the board
		assert.Equal(t, PlayerMark, game.Cells()[4])
		assert.True(t, game.IsGameOver())
		_, ok := game.Cursor()
		assert.False(t, ok)
	})

	t.Run("Ignored after game over", func(t *testing.T) {
		// Given: a full, finished board
		game := gameWithMarks(4, []int{0, 2, 4, 6, 8}, []int{1, 3, 5, 7})
		game.CommitPlayerMark()
		before := game.Cells()

		// When: the player commits again
		game.CommitPlayerMark()

		// Then: nothing changes
		assert.Equal(t, before, game.Cells())
	})
}

func TestBoardGame_CommitOpponentMark(t *testing.T) {
	t.Run("Relocates the cursor before marking its cell", func(t *testing.T) {
		// Given: the cursor is on 0 with the overlay painted and the source picks the first free cell
		game := NewBoardGame()
		game.ReconcileOverlay()
		rng := &scriptedSource{picks: []int{0}}

		// When: the opponent commits
		game.CommitOpponentMark(rng)

		// Then: cell 0 holds the opponent's mark and the cursor moved to 1
		assert.Equal(t, OpponentMark, game.Cells()[0])
		cursor, ok := game.Cursor()
		require.True(t, ok)
		assert.Equal(t, 1, cursor)
		requireInvariants(t, game)
	})

	t.Run("Relocation skips the chosen cell", func(t *testing.T) {
		// Given: the cursor sits on the lowest free cell, 3
		game := gameWithMarks(3, []int{0, 1}, []int{2})
		rng := &scriptedSource{picks: []int{0}}

		// When: the opponent picks cell 3
		game.CommitOpponentMark(rng)

		// Then: the cursor moves to 4, not back onto 3
		assert.Equal(t, OpponentMark, game.Cells()[3])
		cursor, _ := game.Cursor()
		assert.Equal(t, 4, cursor)
	})

	t.Run("Leaves the cursor alone when choosing elsewhere", func(t *testing.T) {
		// Given: the cursor is on 0 and the source picks the third free cell
		game := NewBoardGame()
		rng := &scriptedSource{picks: []int{2}}

		// When: the opponent commits
		game.CommitOpponentMark(rng)

		// Then: cell 2 is marked and the cursor is still on 0
		assert.Equal(t, OpponentMark, game.Cells()[2])
		cursor, _ := game.Cursor()
		assert.Equal(t, 0, cursor)
	})

	t.Run("Taking the cursor's last cell ends the game", func(t *testing.T) {
		// Given: only the cursor cell is free
		game := gameWithMarks(8, []int{0, 2, 4, 6}, []int{1, 3, 5, 7})

		// When: the opponent commits
		game.CommitOpponentMark(&scriptedSource{})

		// Then: the game is over
		assert.Equal(t, OpponentMark, game.Cells()[8])
		assert.True(t, game.IsGameOver())
		_, ok := game.Cursor()
		assert.False(t, ok)
	})

	t.Run("No-op on a full board", func(t *testing.T) {
		// Given: a full board
		game := gameWithMarks(noCursor, []int{0, 2, 4, 6, 8}, []int{1, 3, 5, 7})
		before := game.Cells()

		// When: the opponent commits
		game.CommitOpponentMark(&scriptedSource{})

		// Then: nothing changes
		assert.Equal(t, before, game.Cells())
	})

	t.Run("Never picks a marked cell", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))

		for trial := 0; trial < 500; trial++ {
			// Given: a random partially marked board
			game := NewBoardGame()
			for i := range game.board {
				switch rng.Intn(3) {
				case 0:
					game.board[i] = PlayerMark
				case 1:
					game.board[i] = OpponentMark
				}
			}
			game.relocateCursor(noCursor)
			game.gameOver = false
			before := game.Cells()

			// When: the opponent commits
			game.CommitOpponentMark(rng)

			// Then: at most one cell changed, and it was free before
			changed := 0
			for i, cell := range game.Cells() {
				if cell != before[i] {
					changed++
					assert.True(t, before[i].IsFree(), "trial %d overwrote cell %d", trial, i)
					assert.Equal(t, OpponentMark, cell)
				}
			}
			assert.LessOrEqual(t, changed, 1)
		}
	})
}

func TestBoardGame_ReconcileOverlay(t *testing.T) {
	t.Run("Moves the overlay with the cursor", func(t *testing.T) {
		// Given: a painted overlay on 0
		game := NewBoardGame()
		game.ReconcileOverlay()
		require.Equal(t, CursorOverlay, game.Cells()[0])

		// When: the cursor moves right and the board is reconciled
		game.MoveCursor(Right)
		game.ReconcileOverlay()

		// Then: 0 is empty again and 1 carries the overlay
		assert.Equal(t, Empty, game.Cells()[0])
		assert.Equal(t, CursorOverlay, game.Cells()[1])
	})

	t.Run("Keeps a mark written over the previous overlay", func(t *testing.T) {
		// Given: the overlay is on 0 and the player commits there
		game := NewBoardGame()
		game.ReconcileOverlay()
		game.CommitPlayerMark()

		// When: reconciling
		game.ReconcileOverlay()

		// Then: the mark survives and the overlay is on the new cursor
		assert.Equal(t, PlayerMark, game.Cells()[0])
		assert.Equal(t, CursorOverlay, game.Cells()[1])
	})

	t.Run("Is idempotent", func(t *testing.T) {
		// Given: a game with the cursor on 4
		game := gameWithMarks(4, []int{0}, nil)
		game.ReconcileOverlay()
		before := game.Cells()

		// When: reconciling again
		game.ReconcileOverlay()

		// Then: the board is unchanged
		assert.Equal(t, before, game.Cells())
	})

	t.Run("Clears the overlay once the game is over", func(t *testing.T) {
		// Given: the overlay on the last free cell
		game := gameWithMarks(4, []int{0, 2, 6, 8}, []int{1, 3, 5, 7})
		game.ReconcileOverlay()

		// When: the player fills the board and the board is reconciled
		game.CommitPlayerMark()
		game.ReconcileOverlay()

		// Then: no overlay remains
		for _, cell := range game.Cells() {
			assert.NotEqual(t, CursorOverlay, cell)
		}
	})
}

func TestBoardGame_Actions(t *testing.T) {
	t.Run("Commit is answered by the opponent", func(t *testing.T) {
		// Given: a new game
		game := NewBoardGame()

		// When: the player commits
		apply(game, Commit(), &scriptedSource{picks: []int{3}})

		// Then: one mark of each kind is on the board
		assert.Equal(t, 1, game.MarkCount(PlayerMark))
		assert.Equal(t, 1, game.MarkCount(OpponentMark))
		requireInvariants(t, game)
	})

	t.Run("Quit and None leave the board alone", func(t *testing.T) {
		// Given: a new game
		game := NewBoardGame()

		// When: applying quit and an unmapped key
		apply(game, Quit(), &scriptedSource{})
		apply(game, Action{}, &scriptedSource{})

		// Then: nothing changed
		assert.Equal(t, [BoardSize]Cell{}, game.Cells())
	})
}

func TestBoardGame_RandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		// Given: a new game
		game := NewBoardGame()
		var marks [BoardSize]Cell

		// When: random moves and commits are applied until the board fills
		for steps := 0; !game.IsGameOver(); steps++ {
			require.Less(t, steps, 1000, "game did not finish")

			game.ReconcileOverlay()
			requireInvariants(t, game)

			if rng.Intn(4) == 0 {
				apply(game, Commit(), rng)
			} else {
				apply(game, Move(Direction(rng.Intn(4))), rng)
			}
			requireInvariants(t, game)

			// Then: no mark is ever overwritten
			for i, cell := range game.Cells() {
				if marks[i] != Empty {
					require.Equal(t, marks[i], cell, "mark at %d overwritten", i)
				}
				if cell == PlayerMark || cell == OpponentMark {
					marks[i] = cell
				}
			}
		}

		// Then: the board is full and further calls change nothing
		assert.Equal(t, 5, game.MarkCount(PlayerMark))
		assert.Equal(t, 4, game.MarkCount(OpponentMark))

		before := game.Cells()
		apply(game, Commit(), rng)
		apply(game, Move(Up), rng)
		game.ReconcileOverlay()
		assert.Equal(t, before, game.Cells())
	}
}

func TestEncodeBoard(t *testing.T) {
	// Given: a board with both marks and an overlay
	game := gameWithMarks(4, []int{0}, []int{8})
	game.ReconcileOverlay()

	// When: encoding it
	encoded := EncodeBoard(game.Cells())

	// Then: the overlay is written as a free cell
	assert.Equal(t, "X.......O", encoded)
}
