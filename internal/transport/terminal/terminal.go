package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

const readBufferSize = 16

// Terminal reads key presses from a raw-mode tty and redraws the board in place.
type Terminal struct {
	in       io.Reader
	output   *termenv.Output
	renderer *Renderer

	fd    int
	state *term.State

	buf   []byte
	drawn bool
}

// Open switches in to raw mode and hides the terminal cursor. Close restores both.
func Open(in *os.File, out io.Writer, glyphs Glyphs, color bool) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, apperror.ErrNotTerminal
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enable raw mode: %w", err)
	}

	var opts []termenv.OutputOption
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	output := termenv.NewOutput(out, opts...)

	terminal := newTerminal(in, output, NewRenderer(output, glyphs, color))
	terminal.fd = fd
	terminal.state = state
	output.HideCursor()

	return terminal, nil
}

func newTerminal(in io.Reader, output *termenv.Output, renderer *Renderer) *Terminal {
	return &Terminal{
		in:       in,
		output:   output,
		renderer: renderer,
		fd:       -1,
		buf:      make([]byte, readBufferSize),
	}
}

// ReadAction blocks until one key press arrives.
func (that *Terminal) ReadAction() (entity.Action, error) {
	n, err := that.in.Read(that.buf)
	if n > 0 {
		return DecodeKey(that.buf[:n]), nil
	}

	if err != nil {
		return entity.Action{}, fmt.Errorf("failed to read key: %w", err)
	}

	return entity.Action{}, nil
}

// Render draws a frame over the previous one.
func (that *Terminal) Render(cells [entity.BoardSize]entity.Cell, gameOver bool) error {
	if that.drawn {
		that.output.CursorPrevLine(FrameHeight)
	}

	for _, line := range that.renderer.Lines(cells, gameOver) {
		if _, err := io.WriteString(that.output, line); err != nil {
			return fmt.Errorf("failed to draw frame: %w", err)
		}
		that.output.ClearLineRight()

		// raw mode does not translate \n
		if _, err := io.WriteString(that.output, "\r\n"); err != nil {
			return fmt.Errorf("failed to draw frame: %w", err)
		}
	}
	that.drawn = true

	return nil
}

func (that *Terminal) Close() error {
	that.output.ShowCursor()

	if that.state == nil {
		return nil
	}

	if err := term.Restore(that.fd, that.state); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	that.state = nil

	return nil
}
