package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/grid-duel/internal/config"
	"github.com/DoyleJ11/grid-duel/internal/engine"
	"github.com/DoyleJ11/grid-duel/internal/logging"
	"github.com/DoyleJ11/grid-duel/internal/render"
	"github.com/DoyleJ11/grid-duel/internal/session"
	"github.com/DoyleJ11/grid-duel/internal/transport"
	"github.com/nsf/termbox-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridduel: %v\n%s\n", err, config.Usage)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile, cfg.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridduel: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("session ended", zap.Error(err))
		_ = log.Sync()
		fmt.Fprintf(os.Stderr, "gridduel: %v\n", err)
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := rendezvous(ctx, cfg, log)
	if err != nil {
		return err
	}

	sess, err := session.New(session.Config{Role: cfg.Role}, conn, log)
	if err != nil {
		conn.Close()
		return err
	}
	defer sess.Close()

	screen, err := render.Open()
	if err != nil {
		return err
	}
	defer screen.Close()

	pump := render.StartPump(16)

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)

	g.Go(func() error {
		defer cancel()
		return loop(ctx, cfg.Tick, sess, screen, pump)
	})
	g.Go(func() error {
		<-ctx.Done()
		return pump.Stop()
	})
	return g.Wait()
}

func rendezvous(ctx context.Context, cfg config.Config, log *zap.Logger) (*transport.Conn, error) {
	switch cfg.Role {
	case engine.RoleHost:
		fmt.Printf("waiting for opponent on %s (%s)\n", cfg.ListenAddr, cfg.Transport)
		return transport.Listen(ctx, cfg.Transport, cfg.ListenAddr, log)
	case engine.RoleClient:
		return transport.Dial(ctx, cfg.Transport, cfg.RemoteAddr, log)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownRole, cfg.Role)
	}
}

type game interface {
	HandleInput(engine.Direction) error
	Tick() error
	View() session.View
}

type display interface {
	Draw(session.View) error
}

type input interface {
	Events() <-chan termbox.Event
	Done() <-chan struct{}
	Err() error
}

// loop handles input as it arrives; every tick it polls the peer once and redraws.
func loop(ctx context.Context, tick time.Duration, g game, d display, in input) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	if err := d.Draw(g.View()); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-in.Done():
			return in.Err()

		case ev := <-in.Events():
			if render.IsQuit(ev) {
				return nil
			}
			if dir, ok := render.Direction(ev); ok {
				if err := g.HandleInput(dir); err != nil {
					return err
				}
			}

		case <-ticker.C:
			if err := g.Tick(); err != nil {
				return err
			}
			if err := d.Draw(g.View()); err != nil {
				return fmt.Errorf("draw: %w", err)
			}
		}
	}
}
