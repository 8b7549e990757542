package session

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/grid-duel/internal/engine"
	"github.com/DoyleJ11/grid-duel/pkg/wire"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Both are fatal: there is no recovery from a broken or lying peer.
var ErrTransport = errors.New("transport failure")
var ErrProtocol = errors.New("protocol violation")

// Transport is the session's view of the peer stream. Poll must not block.
type Transport interface {
	Send(wire.Packet) error
	Poll() (wire.Packet, bool, error)
	Close() error
}

type Config struct {
	Role engine.Role
}

// View is a copy of the session state for the renderer.
type View struct {
	ID       string
	Role     engine.Role
	Phase    engine.Phase
	Player   engine.Position
	Opponent engine.Position
	Moves    int
}

// Session is driven from a single tick loop and is not safe for concurrent use.
type Session struct {
	id        string
	state     engine.State
	transport Transport
	log       *zap.Logger
}

func New(cfg Config, t Transport, log *zap.Logger) (*Session, error) {
	state, err := engine.NewState(cfg.Role)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		id:        id,
		state:     state,
		transport: t,
		log:       log.With(zap.String("session_id", id), zap.String("role", string(cfg.Role))),
	}
	s.log.Info("session started",
		zap.String("phase", string(state.Phase)),
		zap.Stringer("player", state.Player),
		zap.Stringer("opponent", state.Opponent))
	return s, nil
}

// HandleInput applies one local directional input. Out-of-turn and
// out-of-bounds inputs are dropped silently; only a failed send is an error.
func (s *Session) HandleInput(dir engine.Direction) error {
	events, next, err := engine.Apply(s.state, engine.Command{Type: engine.CmdMove, Direction: dir})
	if err != nil {
		s.log.Debug("input ignored", zap.String("direction", string(dir)), zap.Error(err))
		return nil
	}

	s.state = next
	for _, event := range events {
		if event.Type != engine.EvtMoved {
			continue
		}
		if err := s.transport.Send(event.Position.Packet()); err != nil {
			return fmt.Errorf("%w: send move %v: %w", ErrTransport, event.Position, err)
		}
		s.log.Debug("move sent",
			zap.Uint8("col", event.Position.Col),
			zap.Uint8("row", event.Position.Row),
			zap.Int("moves", next.Moves))
	}
	return nil
}

// Tick performs at most one non-blocking read, and only while waiting.
func (s *Session) Tick() error {
	if s.state.Phase != engine.PhaseWaiting {
		return nil
	}

	pkt, ok, err := s.transport.Poll()
	if err != nil {
		return fmt.Errorf("%w: receive move: %w", ErrTransport, err)
	}
	if !ok {
		return nil
	}

	pos := engine.PositionFromPacket(pkt)
	_, next, err := engine.Apply(s.state, engine.Command{Type: engine.CmdOpponentMoved, Position: pos})
	if err != nil {
		return fmt.Errorf("%w: packet %v: %w", ErrProtocol, pkt, err)
	}

	s.state = next
	s.log.Debug("move received", zap.Uint8("col", pos.Col), zap.Uint8("row", pos.Row))
	return nil
}

func (s *Session) View() View {
	return View{
		ID:       s.id,
		Role:     s.state.Role,
		Phase:    s.state.Phase,
		Player:   s.state.Player,
		Opponent: s.state.Opponent,
		Moves:    s.state.Moves,
	}
}

func (s *Session) Close() error {
	s.log.Info("session closed", zap.Int("moves", s.state.Moves))
	return s.transport.Close()
}
