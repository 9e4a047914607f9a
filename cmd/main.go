package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmeradmin/api"
	"farmeradmin/config"
	"farmeradmin/logger"
	"farmeradmin/retry"
	"farmeradmin/router"
	"farmeradmin/session"
)

const (
	DEFAULT_CONFIG_FILE = "config.yaml"
	FORCE_QUIT_TIMEOUT  = 10 * time.Second
)

type App struct {
	config  *config.Config
	logger  logger.Logger
	store   *session.Store
	api     *api.Client
	session *session.Manager
	router  *router.Router
	out     io.Writer
}

func NewApp(configFile string, out io.Writer) (*App, error) {
	cfg, err := config.LoadOrCreateConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logging, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := session.Open(cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	app := &App{
		config: cfg,
		logger: log,
		store:  store,
		router: router.Default(),
		out:    out,
	}

	app.api = api.New(cfg.Backend.GetAPIBaseURL(),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Backend.GetTimeout()}),
		api.WithTokenSource(store),
		api.WithLogger(log),
		api.WithRetry(cfg.Backend.MaxRetries, retry.Exponential{}),
		api.WithUnauthorizedHandler(app.onUnauthorized),
	)
	app.session = session.NewManager(store, app.api, log)

	return app, nil
}

// onUnauthorized drops the stored session so the next command asks for a
// fresh login.
func (a *App) onUnauthorized() {
	if !a.store.IsLoggedIn() {
		return
	}
	a.logger.Warn("Session expired, please log in again")
	if err := a.store.Clear(); err != nil {
		a.logger.Error("Failed to clear session: %v", err)
	}
}

// requireLogin applies the login gate to an admin page before its command runs.
func (a *App) requireLogin(page string) error {
	nav, err := a.router.Navigate(page, a.store.IsLoggedIn(), nil)
	if err != nil {
		return err
	}
	if nav.Match.Path == router.LOGIN_PATH && page != router.LOGIN_PATH {
		return fmt.Errorf("not logged in, run 'farmer-admin login' first")
	}
	a.logger.Debug("Opened page %s", nav.Title)
	return nil
}

func (a *App) Close() {
	if err := a.logger.Sync(); err != nil {
		a.logger.Debug("Failed to flush logger: %v", err)
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sigCount := 0
		for {
			<-sigChan
			sigCount++
			if sigCount == 1 {
				log.Println("Received shutdown signal")
				log.Println("Initiating graceful shutdown... (press Ctrl+C again to force quit)")
				cancel()

				go func() {
					time.Sleep(FORCE_QUIT_TIMEOUT)
					log.Printf("Force shutdown after %v", FORCE_QUIT_TIMEOUT)
					os.Exit(1)
				}()
			} else {
				log.Println("Force quit requested")
				os.Exit(1)
			}
		}
	}()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
