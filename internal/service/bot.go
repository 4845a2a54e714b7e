package service

import (
	"math/rand"
	"time"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

type BotService interface {
	MakeTurn(game *entity.BoardGame)
}

type botService struct {
	rng *rand.Rand
}

// NewBotService returns the random opponent. A zero seed seeds from the clock.
func NewBotService(seed int64) BotService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &botService{
		rng: rand.New(rand.NewSource(seed)), //nolint: gosec // it's ok
	}
}

func (that *botService) MakeTurn(game *entity.BoardGame) {
	game.CommitOpponentMark(that.rng)
}
