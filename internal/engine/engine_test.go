package engine

import (
	"errors"
	"testing"
)

func mustState(t *testing.T, role Role) State {
	t.Helper()
	s, err := NewState(role)
	if err != nil {
		t.Fatalf("NewState(%s): %v", role, err)
	}
	return s
}

func playingAt(col, row uint8) State {
	return State{Role: RoleHost, Phase: PhasePlaying, Player: Position{col, row}, Opponent: Position{7, 7}}
}

func containsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// reduce replays events onto an opening state.
func reduce(initial State, events []Event) State {
	s := initial
	for _, event := range events {
		switch event.Type {
		case EvtMoved:
			s.Player = event.Position
			s.Moves++
		case EvtOpponentMoved:
			s.Opponent = event.Position
		case EvtTurnPassed, EvtTurnReceived:
			s.Phase = NextPhase[s.Phase]
		}
	}
	return s
}

func TestNewState_Openings(t *testing.T) {
	host := mustState(t, RoleHost)
	client := mustState(t, RoleClient)

	if host.Phase != PhasePlaying || host.Player != (Position{0, 0}) || host.Opponent != (Position{7, 7}) {
		t.Fatalf("host opening: got %+v", host)
	}
	if client.Phase != PhaseWaiting || client.Player != (Position{7, 7}) || client.Opponent != (Position{0, 0}) {
		t.Fatalf("client opening: got %+v", client)
	}
	if host.Phase == client.Phase {
		t.Fatalf("exactly one side must start playing")
	}
}

func TestNewState_UnknownRole(t *testing.T) {
	if _, err := NewState(Role("spectator")); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestApply_MoveInBounds(t *testing.T) {
	cases := []struct {
		name string
		from Position
		dir  Direction
		want Position
	}{
		{name: "right from origin", from: Position{0, 0}, dir: DirRight, want: Position{1, 0}},
		{name: "down from origin", from: Position{0, 0}, dir: DirDown, want: Position{0, 1}},
		{name: "left from middle", from: Position{4, 4}, dir: DirLeft, want: Position{3, 4}},
		{name: "up from middle", from: Position{4, 4}, dir: DirUp, want: Position{4, 3}},
		{name: "right onto last column", from: Position{7, 7}, dir: DirRight, want: Position{8, 7}},
		{name: "down onto last row", from: Position{7, 7}, dir: DirDown, want: Position{7, 8}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := playingAt(tc.from.Col, tc.from.Row)
			events, next, err := Apply(s, Command{Type: CmdMove, Direction: tc.dir})
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if next.Player != tc.want {
				t.Fatalf("position: got %v, want %v", next.Player, tc.want)
			}
			if next.Phase != PhaseWaiting {
				t.Fatalf("phase: got %v, want %v", next.Phase, PhaseWaiting)
			}
			if next.Moves != s.Moves+1 {
				t.Fatalf("moves: got %d, want %d", next.Moves, s.Moves+1)
			}
			if len(events) == 0 || events[0].Type != EvtMoved || events[0].Position != tc.want {
				t.Fatalf("want EvtMoved at %v first, got %+v", tc.want, events)
			}
			if !containsEvent(events, EvtTurnPassed) {
				t.Fatalf("expected EvtTurnPassed")
			}
		})
	}
}

func TestApply_MoveChangesExactlyOneAxisByOne(t *testing.T) {
	dirs := []Direction{DirLeft, DirRight, DirUp, DirDown}
	for col := uint8(0); col <= MaxCoord; col++ {
		for row := uint8(0); row <= MaxCoord; row++ {
			for _, dir := range dirs {
				s := playingAt(col, row)
				_, next, err := Apply(s, Command{Type: CmdMove, Direction: dir})
				if errors.Is(err, ErrOutOfBounds) {
					if next != s {
						t.Fatalf("rejected move changed state: %+v -> %+v", s, next)
					}
					continue
				}
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				dc := int(next.Player.Col) - int(col)
				dr := int(next.Player.Row) - int(row)
				if dc*dc+dr*dr != 1 {
					t.Fatalf("%v from (%d,%d): moved to %v", dir, col, row, next.Player)
				}
				if !InBounds(next.Player) {
					t.Fatalf("%v from (%d,%d): left the board at %v", dir, col, row, next.Player)
				}
			}
		}
	}
}

func TestApply_MoveOutOfBoundsIsRejected(t *testing.T) {
	cases := []struct {
		name string
		from Position
		dir  Direction
	}{
		{name: "left off column 0", from: Position{0, 3}, dir: DirLeft},
		{name: "up off row 0", from: Position{3, 0}, dir: DirUp},
		{name: "right off column 8", from: Position{8, 3}, dir: DirRight},
		{name: "down off row 8", from: Position{3, 8}, dir: DirDown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := playingAt(tc.from.Col, tc.from.Row)
			events, next, err := Apply(s, Command{Type: CmdMove, Direction: tc.dir})
			if !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("want ErrOutOfBounds, got %v", err)
			}
			if events != nil || next != s {
				t.Fatalf("state changed on rejected move: %+v", next)
			}
		})
	}
}

func TestApply_MoveWhileWaitingIsRejected(t *testing.T) {
	s := mustState(t, RoleClient)
	for _, dir := range []Direction{DirLeft, DirRight, DirUp, DirDown} {
		_, next, err := Apply(s, Command{Type: CmdMove, Direction: dir})
		if !errors.Is(err, ErrWrongTurn) {
			t.Fatalf("%v: want ErrWrongTurn, got %v", dir, err)
		}
		if next != s {
			t.Fatalf("%v: state changed while waiting", dir)
		}
	}
}

func TestApply_SecondMoveInSameTurnIsRejected(t *testing.T) {
	s := mustState(t, RoleHost)
	_, s, err := Apply(s, Command{Type: CmdMove, Direction: DirRight})
	if err != nil {
		t.Fatalf("first move: %v", err)
	}
	_, after, err := Apply(s, Command{Type: CmdMove, Direction: DirDown})
	if !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("want ErrWrongTurn, got %v", err)
	}
	if after.Player != (Position{1, 0}) {
		t.Fatalf("second move leaked: %v", after.Player)
	}
}

func TestApply_UnknownDirection(t *testing.T) {
	s := playingAt(4, 4)
	_, next, err := Apply(s, Command{Type: CmdMove, Direction: Direction("sideways")})
	if !errors.Is(err, ErrUnknownDirection) || next != s {
		t.Fatalf("want ErrUnknownDirection and no change, got %v %+v", err, next)
	}
}

func TestApply_OpponentMovedFlipsToPlaying(t *testing.T) {
	s := mustState(t, RoleClient)
	events, next, err := Apply(s, Command{Type: CmdOpponentMoved, Position: Position{1, 0}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Opponent != (Position{1, 0}) || next.Phase != PhasePlaying {
		t.Fatalf("got %+v", next)
	}
	if next.Player != s.Player {
		t.Fatalf("local position must not change")
	}
	if !containsEvent(events, EvtOpponentMoved) || !containsEvent(events, EvtTurnReceived) {
		t.Fatalf("missing events: %+v", events)
	}
}

func TestApply_OpponentMovedOutOfBounds(t *testing.T) {
	s := mustState(t, RoleClient)
	_, next, err := Apply(s, Command{Type: CmdOpponentMoved, Position: Position{9, 0}})
	if !errors.Is(err, ErrOpponentOutOfBounds) {
		t.Fatalf("want ErrOpponentOutOfBounds, got %v", err)
	}
	if next != s {
		t.Fatalf("state changed on bad packet")
	}
}

func TestApply_OpponentMovedWhilePlaying(t *testing.T) {
	s := mustState(t, RoleHost)
	_, _, err := Apply(s, Command{Type: CmdOpponentMoved, Position: Position{1, 1}})
	if !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("want ErrWrongTurn, got %v", err)
	}
}

func TestApply_UnsupportedCommand(t *testing.T) {
	_, _, err := Apply(playingAt(0, 0), Command{Type: CommandType("Resign")})
	if !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("want ErrUnsupportedCommand, got %v", err)
	}
}

func TestApply_EventsReplayToFinalState(t *testing.T) {
	host := mustState(t, RoleHost)

	var log []Event
	events, s, err := Apply(host, Command{Type: CmdMove, Direction: DirRight})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	log = append(log, events...)
	events, s, err = Apply(s, Command{Type: CmdOpponentMoved, Position: Position{6, 7}})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	log = append(log, events...)

	if got := reduce(host, log); got != s {
		t.Fatalf("reduce: got %+v, want %+v", got, s)
	}
}

func TestPositionPacketRoundTrip(t *testing.T) {
	p := Position{Col: 1, Row: 0}
	pkt := p.Packet()
	if pkt[0] != 1 || pkt[1] != 0 {
		t.Fatalf("packet layout: got %v", pkt)
	}
	if got := PositionFromPacket(pkt); got != p {
		t.Fatalf("got %v, want %v", got, p)
	}
}
