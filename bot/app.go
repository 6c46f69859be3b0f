package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"lexibot/core/bootstrap"
	coretelegram "lexibot/core/telegram"
	tghelpers "lexibot/core/telegram/helpers"
	"lexibot/core/telegram/router"
	"lexibot/ingest"
	"lexibot/lookup"
	"lexibot/review"
	"lexibot/vocab"
)

// App wires the vocabulary bot: store, lookup gateway, ingestion and the
// per-user review session manager.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	store    *vocab.Store
	sessions *review.Manager
}

// New bootstraps infrastructure and assembles the application services.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store := vocab.NewStore(res.DB)
	gateway := lookup.NewGateway(cfg.Lookup)
	ingester := ingest.NewService(store, gateway)
	sessions := review.NewManager(store, ingester, review.Options{
		RefreshQueue: cfg.Review.RefreshQueue,
	})

	return &App{
		cfg:      cfg,
		db:       res.DB,
		store:    store,
		sessions: sessions,
	}, nil
}

// TelegramRunOptions builds the runtime wiring consumed by core/cmd.Run.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.handleUnknownText)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(sessionFSM{app: a}, reg, router.TextOptions{
		UnknownDocument: a.handleUnknownDocument,
	})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

// sessionFSM adapts the review manager to the text router: when a user is
// expected to submit vocabulary text, the next message belongs to the
// session rather than to command lookup.
type sessionFSM struct {
	app *App
}

// InProgress reports whether the user's next message is vocabulary input.
func (f sessionFSM) InProgress(userID int64) bool {
	return f.app.sessions.AwaitingText(userID)
}

// ManagerHandler feeds the message text into the session.
func (f sessionFSM) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	directive := f.app.sessions.Handle(ctx, c.Sender().ID, review.TextReceived{Text: c.Text()})
	return f.app.render(c, directive)
}
