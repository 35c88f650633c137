package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "ydadvisory/docs"
	"ydadvisory/internal/config"
	"ydadvisory/internal/handlers"
	"ydadvisory/internal/middleware"
	"ydadvisory/internal/pdf"
	"ydadvisory/internal/render"
	"ydadvisory/internal/repositories"
	"ydadvisory/internal/routes"
	"ydadvisory/internal/services"
	"ydadvisory/internal/utils"
)

// App is the assembled server.
type App struct {
	Router  *gin.Engine
	DB      *sqlx.DB
	Wizards *services.WizardService

	cfg *config.Config
	log *zap.Logger
}

// Options replace outbound collaborators, mostly for tests.
type Options struct {
	Email    services.EmailService
	Notifier services.Notifier
}

// New opens the database and wires every layer.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// === DB ===
	db, err := repositories.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	// === Repos ===
	serviceRepo := repositories.NewServiceRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	blogRepo := repositories.NewBlogRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	newsletterRepo := repositories.NewNewsletterRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	wizardRepo := repositories.NewWizardStateRepository(db)

	// === Outbound ===
	emailService := opts.Email
	if emailService == nil && cfg.SMTPEnabled() {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
			cfg.Email.NotifyEmail,
			log.Named("email"),
		)
	}
	notifier := opts.Notifier
	if notifier == nil {
		tg, err := services.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, log.Named("telegram"))
		if err != nil {
			// the site works without Telegram; keep serving
			log.Warn("telegram disabled", zap.Error(err))
			tg, _ = services.NewTelegramNotifier("", 0, log.Named("telegram"))
		}
		notifier = tg
	}
	formClient := utils.NewFormClient(cfg.Wizard.FormEndpoint, cfg.Wizard.DryRun, log.Named("form"))

	// === Services ===
	authService := services.NewAuthService(cfg.Auth)
	catalogService := services.NewCatalogService(serviceRepo)
	teamService := services.NewTeamService(teamRepo)
	blogService := services.NewBlogService(blogRepo, render.NewMarkdown())
	portfolioService := services.NewPortfolioService(portfolioRepo)
	contactService := services.NewContactService(contactRepo, emailService, notifier, log.Named("contact"))
	unsubscribeURL := strings.TrimRight(cfg.Server.PublicURL, "/") + "/api/newsletter/unsubscribe?token="
	newsletterService := services.NewNewsletterService(newsletterRepo, emailService, unsubscribeURL, log.Named("newsletter"))
	wizardService := services.NewWizardService(wizardRepo, services.WizardConfig{
		Submitter:     services.NewFormSubmitter(formClient),
		Fallback:      services.NewMailtoFallback(emailService, log.Named("mailto")),
		FallbackTo:    cfg.Wizard.FallbackTo,
		CC:            cfg.Wizard.CC,
		Window:        cfg.Wizard.Window,
		Tick:          cfg.Wizard.Tick,
		SubmitTimeout: cfg.Wizard.SubmitTimeout,
		IdleTTL:       cfg.Wizard.IdleTTL,
	}, notifier, log.Named("wizard"))

	pdfGen := pdf.NewReportGenerator(cfg.Files.FontPath, "")

	// === Handlers ===
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, log),
		Services:   handlers.NewServiceHandler(catalogService, log),
		Team:       handlers.NewTeamHandler(teamService, log),
		Blog:       handlers.NewBlogHandler(blogService, log),
		Portfolio:  handlers.NewPortfolioHandler(portfolioService, log),
		Newsletter: handlers.NewNewsletterHandler(newsletterService, log),
		Contact:    handlers.NewContactHandler(contactService, log),
		Wizard:     handlers.NewWizardHandler(wizardService, pdfGen, cfg.Wizard.CookieSecure, log),
	}

	// === Gin ===
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log.Named("http")))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", handlers.Health(db))
	router.Static("/assets", cfg.Files.RootDir)

	routes.SetupRoutes(router, h, []byte(cfg.Auth.JWTSecret))

	return &App{Router: router, DB: db, Wizards: wizardService, cfg: cfg, log: log}, nil
}

// Run serves HTTP and sweeps wizard sessions until ctx is cancelled, then
// drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.Wizards.Run(gctx, a.cfg.Wizard.SweepInterval, a.cfg.Wizard.Retention)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutdown signal received; draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Error("graceful shutdown failed", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}

func (a *App) Close() error {
	return a.DB.Close()
}
