package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akarpov/portfolio-api/internal/db"
	"github.com/akarpov/portfolio-api/internal/handlers"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/mailer"
	"github.com/akarpov/portfolio-api/internal/repository/postgres"
	"github.com/akarpov/portfolio-api/internal/service/auth"
	"github.com/akarpov/portfolio-api/internal/service/auth/tokenmanager"
	"github.com/akarpov/portfolio-api/internal/service/catalog"
	"github.com/akarpov/portfolio-api/internal/service/contact"
	"github.com/akarpov/portfolio-api/internal/service/newsletter"
	"github.com/akarpov/portfolio-api/internal/service/project"
	"github.com/akarpov/portfolio-api/internal/service/testimonial"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	storage := postgres.NewStorage(pool)

	smtpMailer, err := mailer.NewSMTP(mailer.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
		FromName: c.SMTPFromName,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating mailer. Err: %w", err)
	}

	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authService, err := auth.NewService(
		storage.User(),
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		tokenManager,
		smtpMailer,
		c.FrontendURL,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		AuthService:        authService,
		ProjectService:     project.NewService(storage.Project()),
		CatalogService:     catalog.NewService(storage.Service()),
		TestimonialService: testimonial.NewService(storage.Testimonial()),
		ContactService:     contact.NewService(storage.Contact(), smtpMailer, c.AdminEmail, log),
		NewsletterService:  newsletter.NewService(storage.Newsletter(), smtpMailer, c.SMTPFrom),

		DB:     pool,
		Logger: log,

		GlobalRateLimit:  defaultGlobalRateLimit,
		GlobalRateWindow: defaultGlobalRateWindowMinutes * time.Minute,
		AuthRateLimit:    defaultAuthRateLimit,
		AuthRateWindow:   defaultAuthRateWindowMinutes * time.Minute,

		AllowedOrigins: c.AllowedOrigins,
	})

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
