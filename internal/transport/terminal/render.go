package terminal

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

const (
	rowSeparator = "───┼───┼───"
	colSeparator = "│"

	// FrameHeight is the number of lines in one frame: three rows, two separators and the status line.
	FrameHeight = 6

	helpLine = "arrows/hjkl move · enter place · q quit"
)

type Glyphs struct {
	Player   string
	Opponent string
	Empty    string
	Cursor   string
}

type Renderer struct {
	output *termenv.Output
	glyphs Glyphs
	color  bool
}

func NewRenderer(output *termenv.Output, glyphs Glyphs, color bool) *Renderer {
	return &Renderer{
		output: output,
		glyphs: glyphs,
		color:  color,
	}
}

// Lines draws the board as FrameHeight lines without line endings.
func (that *Renderer) Lines(cells [entity.BoardSize]entity.Cell, gameOver bool) []string {
	lines := make([]string, 0, FrameHeight)

	for y := 0; y < 3; y++ {
		var row strings.Builder
		for x := 0; x < 3; x++ {
			glyph := that.glyph(cells[y*3+x])
			if x == 2 {
				row.WriteString(" " + glyph + " ")
			} else {
				row.WriteString(" " + glyph + " " + colSeparator)
			}
		}
		lines = append(lines, row.String())

		if y != 2 {
			lines = append(lines, rowSeparator)
		}
	}

	return append(lines, that.status(cells, gameOver))
}

func (that *Renderer) status(cells [entity.BoardSize]entity.Cell, gameOver bool) string {
	if !gameOver {
		return helpLine
	}

	player, opponent := 0, 0
	for _, cell := range cells {
		switch cell {
		case entity.PlayerMark:
			player++
		case entity.OpponentMark:
			opponent++
		}
	}

	return fmt.Sprintf("board full · %s %d · %s %d", that.glyphs.Player, player, that.glyphs.Opponent, opponent)
}

func (that *Renderer) glyph(cell entity.Cell) string {
	var (
		glyph string
		color string
	)

	switch cell {
	case entity.PlayerMark:
		glyph, color = that.glyphs.Player, "2"
	case entity.OpponentMark:
		glyph, color = that.glyphs.Opponent, "1"
	case entity.CursorOverlay:
		glyph, color = that.glyphs.Cursor, "3"
	default:
		return that.glyphs.Empty
	}

	if !that.color {
		return glyph
	}

	style := that.output.String(glyph).Foreground(that.output.Color(color))
	if cell == entity.CursorOverlay {
		style = style.Bold().Blink()
	}

	return style.String()
}
