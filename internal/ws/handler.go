package ws

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Acceptor upgrades exactly one peer. Once a peer is taken every later
// upgrade attempt is refused with 409.
type Acceptor struct {
	log   *zap.Logger
	taken atomic.Bool
	conns chan net.Conn
}

func NewAcceptor(log *zap.Logger) *Acceptor {
	return &Acceptor{
		log:   log,
		conns: make(chan net.Conn, 1),
	}
}

// Conns yields the single accepted stream.
func (a *Acceptor) Conns() <-chan net.Conn { return a.conns }

func (a *Acceptor) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.taken.CompareAndSwap(false, true) {
			a.log.Info("rejecting extra peer", zap.String("remote", r.RemoteAddr))
			http.Error(w, "session already in progress", http.StatusConflict)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			// Failed upgrade does not use up the seat.
			a.taken.Store(false)
			a.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		// The request context ends with this handler; the stream outlives it.
		a.conns <- websocket.NetConn(context.Background(), conn, websocket.MessageBinary)
	}
}
