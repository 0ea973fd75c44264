// Package echoweb serves the Academia marketing site and the authenticated
// dashboard. Every route is evaluated through the access guard against the
// visitor's session before rendering.
package echoweb

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/access"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/catalog"
	catalogsvc "github.com/trezcool/academia/services/catalog"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		EmailSvc       core.EmailService
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		// NewGateway builds the identity gateway bound to a browser
		// session's credential store.
		NewGateway func(creds auth.CredentialStore) auth.Gateway
		// NewCatalog builds the catalog service bound to a browser
		// session's live bearer token.
		NewCatalog func(token catalogsvc.TokenFunc) *catalog.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(ctx context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		sessions *sessionManager
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		sessions: newSessionManager(opts),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.Renderer = newTemplateRenderer()

	s.app.GET(access.RootPath, s.root)

	// public routes
	s.app.POST("/contact", s.contact)

	// guarded routes; every rule comes from the shared route table
	s.app.GET(access.HomePath, s.home, s.guard(access.HomePath))
	s.app.GET(access.LoginPath, s.loginForm, s.guard(access.LoginPath))
	s.app.POST(access.LoginPath, s.login, s.guard(access.LoginPath))
	s.app.POST("/logout", s.logout) // callable from any view at any time

	s.app.GET(access.DashboardPath, s.dashboard, s.guard(access.DashboardPath))
	s.app.GET(access.AnnouncementsPath, s.announcements, s.guard(access.AnnouncementsPath))
	s.app.GET(access.QuizzesPath, s.quizzes, s.guard(access.QuizzesPath))
}

func (s *server) Start() {
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Start(s.opts.Conf.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			s.opts.Logger.Error("server start", err)
		}
	case sig := <-s.shutdown:
		s.opts.Logger.Info("shutting down", map[string]interface{}{"signal": sig})
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.Conf.Server.ShutdownTimeout)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			s.opts.Logger.Error("graceful shutdown", err)
			_ = s.app.Close()
		}
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// signalShutdown is handed to the error handler so an unrecoverable error
// can stop the process gracefully.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

// root resolves "/" from the authenticated flag alone: the startup
// verification is expected to have settled by the time a visitor chains
// through here (see the access package).
func (s *server) root(ctx echo.Context) error {
	bs := s.sessions.get(ctx)
	return ctx.Redirect(http.StatusFound, access.RootRedirect(bs.store.Current()))
}
