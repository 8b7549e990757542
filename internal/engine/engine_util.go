package engine

import (
	"fmt"

	"github.com/DoyleJ11/grid-duel/pkg/wire"
)

func NewState(role Role) (State, error) {
	opening, ok := Openings[role]
	if !ok {
		return State{}, fmt.Errorf("no opening for role %q", role)
	}
	return State{
		Role:     role,
		Phase:    opening.Phase,
		Player:   opening.Player,
		Opponent: opening.Opponent,
	}, nil
}

func InBounds(p Position) bool {
	return p.Col <= MaxCoord && p.Row <= MaxCoord
}

func (p Position) Packet() wire.Packet {
	return wire.Encode(p.Col, p.Row)
}

// PositionFromPacket does not check bounds; Apply does.
func PositionFromPacket(pkt wire.Packet) Position {
	col, row := wire.Decode(pkt)
	return Position{Col: col, Row: row}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}
