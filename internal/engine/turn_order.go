package engine

type Opening struct {
	Phase    Phase
	Player   Position
	Opponent Position
}

// Host moves first from the top-left corner; client waits in the opposite one.
var Openings = map[Role]Opening{
	RoleHost: {
		Phase:    PhasePlaying,
		Player:   Position{Col: 0, Row: 0},
		Opponent: Position{Col: 7, Row: 7},
	},
	RoleClient: {
		Phase:    PhaseWaiting,
		Player:   Position{Col: 7, Row: 7},
		Opponent: Position{Col: 0, Row: 0},
	},
}

var NextPhase = map[Phase]Phase{
	PhasePlaying: PhaseWaiting,
	PhaseWaiting: PhasePlaying,
}

type Delta struct {
	Col int
	Row int
}

var Deltas = map[Direction]Delta{
	DirLeft:  {Col: -1},
	DirRight: {Col: 1},
	DirUp:    {Row: -1},
	DirDown:  {Row: 1},
}
