package ssh

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bts "github.com/charmbracelet/wish/bubbletea"

	"github.com/pfassina/rovr/internal/app"
	"github.com/pfassina/rovr/internal/config"
	"github.com/pfassina/rovr/internal/session"
)

// appKey holds a session's *app.App in its ssh.Context.
type appKey struct{}

// NewHandler returns a Bubble Tea handler for SSH sessions. Sessions share
// store; the last one to quit wins.
func NewHandler(cfg *config.Config, store *session.Store, startPath string) bts.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		a, err := newSessionApp(sess, cfg, store, startPath)
		if err != nil {
			log.Error("start session", "user", sess.User(), "err", err)
			wish.Fatalln(sess, err)
			return nil, nil
		}

		opts := []tea.ProgramOption{
			tea.WithAltScreen(),
		}
		opts = append(opts, bts.MakeOptions(sess)...)

		return a, opts
	}
}

func newSessionApp(sess ssh.Session, cfg *config.Config, store *session.Store, startPath string) (*app.App, error) {
	a, err := app.New(app.Options{
		Config:    cfg.Clone(),
		Store:     store,
		StartPath: startPath,
		Remote:    true,
	})
	if err != nil {
		return nil, err
	}
	sess.Context().SetValue(appKey{}, a)
	return a, nil
}

// closeSessionApp closes the session's app once the program has stopped.
// It must sit directly inside bts.Middleware, which calls next only after
// the program returns, so Close never overlaps Update. A dropped connection
// quits the program and ends up here too.
func closeSessionApp() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			if a, ok := sess.Context().Value(appKey{}).(*app.App); ok {
				a.Close()
			}
			next(sess)
		}
	}
}
