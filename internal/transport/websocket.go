package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/DoyleJ11/grid-duel/internal/httpapi"
	"github.com/DoyleJ11/grid-duel/internal/ws"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

const shutdownTimeout = 3 * time.Second

// AcceptWS serves the rendezvous router on ln until one peer upgrades on
// /ws, then shuts the server down.
func AcceptWS(ctx context.Context, ln net.Listener, log *zap.Logger) (*Conn, error) {
	acceptor := ws.NewAcceptor(log)
	srv := &http.Server{
		Handler:           httpapi.SetupRoutes(acceptor),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	var conn net.Conn
	select {
	case conn = <-acceptor.Conns():
	case err := <-serveErr:
		return nil, fmt.Errorf("serve rendezvous: %w", err)
	case <-ctx.Done():
		srv.Close()
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn("shutting down rendezvous server", zap.Error(err))
	}

	log.Info("opponent connected", zap.String("remote", conn.RemoteAddr().String()))
	return NewConn(conn, log), nil
}

func DialWS(ctx context.Context, addr string, log *zap.Logger) (*Conn, error) {
	url := "ws://" + addr + httpapi.SessionPath
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", url, err)
	}
	log.Info("connected to host", zap.String("url", url))
	return NewConn(websocket.NetConn(context.Background(), c, websocket.MessageBinary), log), nil
}
