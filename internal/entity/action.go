package entity

// ActionKind is what a single key press asks the game to do.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionMove
	ActionCommit
	ActionQuit
)

type Action struct {
	Kind      ActionKind
	Direction Direction
}

func Move(direction Direction) Action {
	return Action{Kind: ActionMove, Direction: direction}
}

func Commit() Action {
	return Action{Kind: ActionCommit}
}

func Quit() Action {
	return Action{Kind: ActionQuit}
}
