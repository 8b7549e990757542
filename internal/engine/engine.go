package engine

import (
	"errors"
)

var ErrWrongTurn = errors.New("not your turn")
var ErrOutOfBounds = errors.New("move leaves the board")
var ErrOpponentOutOfBounds = errors.New("opponent position outside the board")
var ErrUnknownDirection = errors.New("unknown direction")
var ErrUnsupportedCommand = errors.New("unsupported command")

// MaxCoord is the largest coordinate on either axis. The board is drawn as 8x8
// tiles but positions run 0..8 inclusive, so there are 9 values per axis.
const MaxCoord = 8

type Role string

const (
	RoleHost   Role = "host"
	RoleClient Role = "client"
)

type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseWaiting Phase = "waiting"
)

type Direction string

const (
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirUp    Direction = "up"
	DirDown  Direction = "down"
)

type Position struct {
	Col uint8
	Row uint8
}

type State struct {
	Role     Role
	Phase    Phase
	Player   Position
	Opponent Position
	Moves    int // local moves committed
}

type CommandType string

const (
	CmdMove          CommandType = "Move"
	CmdOpponentMoved CommandType = "OpponentMoved"
)

/*
	CmdMove          -> EvtMoved -> EvtTurnPassed
	CmdOpponentMoved -> EvtOpponentMoved -> EvtTurnReceived
*/

type Command struct {
	Type      CommandType
	Direction Direction
	Position  Position
}

type EventType string

const (
	EvtMoved         EventType = "Moved"
	EvtTurnPassed    EventType = "TurnPassed"
	EvtOpponentMoved EventType = "OpponentMoved"
	EvtTurnReceived  EventType = "TurnReceived"
)

type Event struct {
	Type     EventType
	Position Position
}

// Apply validates cmd against s. On error the returned state is s unchanged.
func Apply(s State, cmd Command) ([]Event, State, error) {
	newState := s

	switch cmd.Type {
	case CmdMove:
		if s.Phase != PhasePlaying {
			return nil, s, ErrWrongTurn
		}

		next, err := step(s.Player, cmd.Direction)
		if err != nil {
			return nil, s, err
		}

		newState.Player = next
		newState.Moves++
		newState.Phase = NextPhase[s.Phase]
		events := []Event{
			{Type: EvtMoved, Position: next},
			{Type: EvtTurnPassed},
		}
		return events, newState, nil

	case CmdOpponentMoved:
		if s.Phase != PhaseWaiting {
			return nil, s, ErrWrongTurn
		}

		if !InBounds(cmd.Position) {
			return nil, s, ErrOpponentOutOfBounds
		}

		newState.Opponent = cmd.Position
		newState.Phase = NextPhase[s.Phase]
		events := []Event{
			{Type: EvtOpponentMoved, Position: cmd.Position},
			{Type: EvtTurnReceived},
		}
		return events, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func step(p Position, dir Direction) (Position, error) {
	delta, ok := Deltas[dir]
	if !ok {
		return p, ErrUnknownDirection
	}

	col := int(p.Col) + delta.Col
	row := int(p.Row) + delta.Row
	if col < 0 || col > MaxCoord || row < 0 || row > MaxCoord {
		return p, ErrOutOfBounds
	}
	return Position{Col: uint8(col), Row: uint8(row)}, nil
}
