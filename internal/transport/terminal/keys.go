package terminal

import "github.com/rocketscienceinc/tictactoe-terminal/internal/entity"

const (
	keyCtrlC  = 3
	keyEscape = 27
)

// DecodeKey maps the bytes of one key press to a game action.
// Arrow keys arrive as ESC [ A..D (or ESC O A..D in application mode).
func DecodeKey(b []byte) entity.Action {
	if len(b) >= 3 && b[0] == keyEscape && (b[1] == '[' || b[1] == 'O') {
		switch b[2] {
		case 'A':
			return entity.Move(entity.Up)
		case 'B':
			return entity.Move(entity.Down)
		case 'C':
			return entity.Move(entity.Right)
		case 'D':
			return entity.Move(entity.Left)
		}

		return entity.Action{}
	}

	if len(b) != 1 {
		return entity.Action{}
	}

	switch b[0] {
	case 'q', 'Q', keyEscape, keyCtrlC:
		return entity.Quit()
	case '\r', '\n', ' ':
		return entity.Commit()
	case 'w', 'W', 'k', 'K':
		return entity.Move(entity.Up)
	case 's', 'S', 'j', 'J':
		return entity.Move(entity.Down)
	case 'a', 'A', 'h', 'H':
		return entity.Move(entity.Left)
	case 'd', 'D', 'l', 'L':
		return entity.Move(entity.Right)
	default:
		return entity.Action{}
	}
}
