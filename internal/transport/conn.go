package transport

import (
	"errors"
	"io"
	"net"
	"sync"

	"github.com/DoyleJ11/grid-duel/pkg/wire"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("transport closed")

type result struct {
	pkt wire.Packet
	err error
}

// Conn is the single duplex stream between the two players. A background
// reader owns the socket's read side so Poll never blocks.
type Conn struct {
	conn    net.Conn
	log     *zap.Logger
	inbound chan result
	done    chan struct{}
	closers []io.Closer

	err       error // sticky read error, only touched by Poll
	closeOnce sync.Once
	closeErr  error
}

// NewConn starts the reader. Extra closers are closed after conn on Close.
func NewConn(conn net.Conn, log *zap.Logger, closers ...io.Closer) *Conn {
	c := &Conn{
		conn:    conn,
		log:     log.With(zap.String("remote", conn.RemoteAddr().String())),
		inbound: make(chan result, 16), // Small buffer
		done:    make(chan struct{}),
		closers: closers,
	}
	go c.readLoop()
	return c
}

func (c *Conn) readLoop() {
	for {
		pkt, err := wire.ReadPacket(c.conn)
		select {
		case c.inbound <- result{pkt: pkt, err: err}:
		case <-c.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// Poll returns the next inbound packet if one has fully arrived. ok is false
// with a nil error when nothing is available yet.
func (c *Conn) Poll() (pkt wire.Packet, ok bool, err error) {
	if c.err != nil {
		return wire.Packet{}, false, c.err
	}

	select {
	case r := <-c.inbound:
		if r.err != nil {
			c.err = r.err
			return wire.Packet{}, false, r.err
		}
		return r.pkt, true, nil
	case <-c.done:
		c.err = ErrClosed
		return wire.Packet{}, false, ErrClosed
	default:
		return wire.Packet{}, false, nil
	}
}

// Send writes one packet. It is fire-and-forget: no ack, no retry.
func (c *Conn) Send(pkt wire.Packet) error {
	return wire.WritePacket(c.conn, pkt)
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		err := c.conn.Close()
		for _, closer := range c.closers {
			err = multierr.Append(err, closer.Close())
		}
		c.closeErr = err
		c.log.Debug("transport closed", zap.Error(err))
	})
	return c.closeErr
}
