package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
)

type Kind string

const (
	KindTCP Kind = "tcp"
	KindWS  Kind = "ws"
)

var ErrUnknownKind = errors.New("unknown transport kind")

// Listen binds addr and waits for exactly one peer.
func Listen(ctx context.Context, kind Kind, addr string, log *zap.Logger) (*Conn, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	log.Info("waiting for opponent", zap.String("addr", ln.Addr().String()), zap.String("transport", string(kind)))

	switch kind {
	case KindTCP:
		return Accept(ctx, ln, log)
	case KindWS:
		return AcceptWS(ctx, ln, log)
	default:
		ln.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Dial makes a single connection attempt to addr.
func Dial(ctx context.Context, kind Kind, addr string, log *zap.Logger) (*Conn, error) {
	switch kind {
	case KindTCP:
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", addr, err)
		}
		log.Info("connected to host", zap.String("addr", addr))
		return NewConn(conn, log), nil
	case KindWS:
		return DialWS(ctx, addr, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Accept takes the first connection on ln and closes ln; later peers are refused.
func Accept(ctx context.Context, ln net.Listener, log *zap.Logger) (*Conn, error) {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warn("closing listener", zap.Error(err))
	}

	log.Info("opponent connected", zap.String("remote", conn.RemoteAddr().String()))
	return NewConn(conn, log), nil
}
