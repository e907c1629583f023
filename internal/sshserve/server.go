// Package sshserve serves scrollmem sessions over SSH. Every connection
// gets its own reveal controller, renderer and mouse zone manager.
package sshserve

import (
	"context"
	"fmt"
	"net"

	tea "github.com/charmbracelet/bubbletea"
	charmssh "github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishbubbletea "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/scrollmem/internal/app"
	"github.com/zjrosen/scrollmem/internal/config"
	"github.com/zjrosen/scrollmem/internal/log"
	"github.com/zjrosen/scrollmem/internal/reveal"
	"github.com/zjrosen/scrollmem/internal/ui/styles"
)

// Config holds what every session is built from.
type Config struct {
	App       config.Config
	Text      string
	Tokenizer reveal.Tokenizer
	Tracer    trace.Tracer
}

// NewServer creates a wish server that runs one app per session.
func NewServer(cfg Config) (*charmssh.Server, error) {
	sshCfg := cfg.App.SSH
	if sshCfg.ListenAddr == "" {
		sshCfg.ListenAddr = config.Defaults().SSH.ListenAddr
	}
	if sshCfg.HostKeyPath == "" {
		sshCfg.HostKeyPath = config.DefaultHostKeyPath()
	}

	var authorized []charmssh.PublicKey
	if sshCfg.AuthorizedKeysPath != "" {
		keys, err := LoadAuthorizedKeys(sshCfg.AuthorizedKeysPath)
		if err != nil {
			return nil, err
		}
		authorized = keys
		log.Info(log.CatSSH, "Loaded authorized keys", "count", len(keys))
	}

	handler := func(sess charmssh.Session) (tea.Model, []tea.ProgramOption) {
		return sessionHandler(sess, cfg)
	}

	opts := []charmssh.Option{
		wish.WithAddress(sshCfg.ListenAddr),
		wish.WithHostKeyPath(sshCfg.HostKeyPath),
		wish.WithMiddleware(
			wishbubbletea.Middleware(handler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	}
	if len(authorized) > 0 {
		opts = append(opts, wish.WithPublicKeyAuth(func(ctx charmssh.Context, key charmssh.PublicKey) bool {
			ok := Authorized(authorized, key)
			log.Info(log.CatSSH, "Public key auth", "user", ctx.User(), "accepted", ok)
			return ok
		}))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ssh server: %w", err)
	}
	return server, nil
}

// sessionHandler builds the model for one connection.
func sessionHandler(sess charmssh.Session, cfg Config) (tea.Model, []tea.ProgramOption) {
	id := uuid.NewString()
	renderer := wishbubbletea.MakeRenderer(sess)
	st := styles.New(renderer)
	zones := zone.New()

	appCfg := cfg.App
	// Sessions never watch the server's files.
	appCfg.Watch = false

	m := app.New(app.Options{
		Config:    appCfg,
		Text:      cfg.Text,
		Styles:    &st,
		Zones:     zones,
		Tokenizer: cfg.Tokenizer,
		Tracer:    cfg.Tracer,
		SessionID: id,
		Context:   sess.Context(),
	})
	log.Info(log.CatSSH, "Session started", "session", id, "user", sess.User())

	go watchSession(sess.Context(), m.Controller(), zones)

	return m, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}

// watchSession logs the session's progress and releases the controller and
// zone manager when the connection ends.
func watchSession(ctx context.Context, ctrl *reveal.Controller, zones *zone.Manager) {
	defer zones.Close()
	events := ctrl.Events().Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			ctrl.Close()
			log.Info(log.CatSSH, "Session ended", "session", ctrl.SessionID())
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			p := ev.Payload
			log.Debug(log.CatSSH, "Session progress", "session", p.SessionID,
				"event", p.Kind, "visible", p.VisibleWords, "total", p.TotalWords, "length", p.Length)
		}
	}
}

// Serve runs server until ctx is cancelled. A shutdown triggered by ctx is
// not an error.
func Serve(ctx context.Context, server *charmssh.Server) error {
	l, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", server.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(l) }()

	log.Info(log.CatSSH, "SSH server listening", "addr", l.Addr().String())
	select {
	case <-ctx.Done():
		log.Info(log.CatSSH, "Shutting down SSH server")
		_ = server.Close()
		_ = l.Close()
		<-errCh
		return nil
	case err := <-errCh:
		return fmt.Errorf("ssh server: %w", err)
	}
}
