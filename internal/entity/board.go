package entity

// Cell is the state of one board position.
type Cell uint8

const (
	Empty Cell = iota
	PlayerMark
	OpponentMark
	CursorOverlay
)

const (
	BoardSize = 9
	rowLength = 3

	noCursor = -1
)

func (c Cell) String() string {
	switch c {
	case PlayerMark:
		return "player"
	case OpponentMark:
		return "opponent"
	case CursorOverlay:
		return "cursor"
	default:
		return "empty"
	}
}

// IsFree reports whether the cell holds no mark. The cursor overlay is free.
func (c Cell) IsFree() bool {
	return c == Empty || c == CursorOverlay
}

// Direction is a cursor movement request.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "right"
	}
}

// RandomSource picks the opponent's cell. *math/rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// BoardGame is the board/cursor state machine of a single game.
// It is not safe for concurrent use.
type BoardGame struct {
	board           [BoardSize]Cell
	cursor          int
	previousOverlay int
	gameOver        bool
}

// NewBoardGame returns an empty board with the cursor on the first cell.
func NewBoardGame() *BoardGame {
	return &BoardGame{
		cursor:          0,
		previousOverlay: noCursor,
	}
}

// Cells returns a snapshot of the board.
func (that *BoardGame) Cells() [BoardSize]Cell {
	return that.board
}

// Cursor returns the cursor index and whether it addresses the board.
func (that *BoardGame) Cursor() (int, bool) {
	return that.cursor, isOnBoard(that.cursor)
}

func (that *BoardGame) IsGameOver() bool {
	return that.gameOver
}

// MoveCursor moves the cursor one step, skipping marked cells.
// Up and Down fall back to a row search, Left and Right to a scan within the row.
func (that *BoardGame) MoveCursor(direction Direction) {
	if that.gameOver || !isOnBoard(that.cursor) {
		return
	}

	candidate := step(that.cursor, direction)
	if !that.board[candidate].IsFree() {
		switch direction {
		case Up, Down:
			candidate = that.searchRows(candidate, direction)
		case Left:
			candidate = that.scanLeft(candidate)
		case Right:
			candidate = that.scanRight(candidate)
		}
	}

	if isOnBoard(candidate) && that.board[candidate].IsFree() {
		that.cursor = candidate
	}
}

// CommitPlayerMark places the player's mark under the cursor and moves the
// cursor to the first free cell. A full board ends the game.
func (that *BoardGame) CommitPlayerMark() {
	if that.gameOver || !isOnBoard(that.cursor) {
		return
	}

	if that.board[that.cursor].IsFree() {
		that.board[that.cursor] = PlayerMark
	}

	that.relocateCursor(noCursor)
}

// CommitOpponentMark places the opponent's mark on a uniformly chosen free cell.
// The cursor leaves the chosen cell before the mark is written.
func (that *BoardGame) CommitOpponentMark(rng RandomSource) {
	free := that.freeCells()
	if len(free) == 0 {
		return
	}

	chosen := free[rng.Intn(len(free))]
	if chosen == that.cursor {
		that.relocateCursor(chosen)
	}

	that.board[chosen] = OpponentMark
}

// ReconcileOverlay clears the previous cursor glyph and paints the current
// one. It must run before every render.
func (that *BoardGame) ReconcileOverlay() {
	if isOnBoard(that.previousOverlay) && that.board[that.previousOverlay] == CursorOverlay {
		that.board[that.previousOverlay] = Empty
	}
	that.previousOverlay = noCursor

	if that.gameOver || !isOnBoard(that.cursor) {
		return
	}

	if that.board[that.cursor].IsFree() {
		that.board[that.cursor] = CursorOverlay
		that.previousOverlay = that.cursor
	}
}

// MarkCount returns how many cells hold the given mark.
func (that *BoardGame) MarkCount(mark Cell) int {
	count := 0
	for _, cell := range that.board {
		if cell == mark {
			count++
		}
	}

	return count
}

// relocateCursor moves the cursor to the lowest free index other than except.
func (that *BoardGame) relocateCursor(except int) {
	for i, cell := range that.board {
		if i != except && cell.IsFree() {
			that.cursor = i
			return
		}
	}

	that.cursor = noCursor
	that.gameOver = true
}

func (that *BoardGame) freeCells() []int {
	free := make([]int, 0, BoardSize)
	for i, cell := range that.board {
		if cell.IsFree() {
			free = append(free, i)
		}
	}

	return free
}

// searchRows looks for a free cell in the candidate row and the rows beyond
// it, preferring the cursor's column in each row.
func (that *BoardGame) searchRows(candidate int, direction Direction) int {
	column := that.cursor % rowLength
	rowStep := 1
	if direction == Up {
		rowStep = -1
	}

	for row := candidate / rowLength; row >= 0 && row < rowLength; row += rowStep {
		start := row * rowLength
		if that.board[start+column].IsFree() {
			return start + column
		}

		for i := start; i < start+rowLength; i++ {
			if that.board[i].IsFree() {
				return i
			}
		}
	}

	return noCursor
}

func (that *BoardGame) scanLeft(candidate int) int {
	i := candidate
	for i%rowLength != 0 && !that.board[i].IsFree() {
		i--
	}

	return i
}

func (that *BoardGame) scanRight(candidate int) int {
	i := candidate
	for i%rowLength != rowLength-1 && !that.board[i].IsFree() {
		i++
	}

	return i
}

// step is the naive move, clamped at the board edges.
func step(index int, direction Direction) int {
	switch direction {
	case Up:
		if index >= rowLength {
			return index - rowLength
		}
	case Down:
		if index < BoardSize-rowLength {
			return index + rowLength
		}
	case Left:
		if index%rowLength != 0 {
			return index - 1
		}
	case Right:
		if index%rowLength != rowLength-1 {
			return index + 1
		}
	}

	return index
}

func isOnBoard(index int) bool {
	return index >= 0 && index < BoardSize
}
