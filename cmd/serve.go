package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raflytch/resume-analyzer/internal/config"
	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/internal/handler"
	"github.com/raflytch/resume-analyzer/internal/middleware"
	"github.com/raflytch/resume-analyzer/internal/routes"
	"github.com/raflytch/resume-analyzer/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var servePort string

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides APP_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.App.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newResultStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	results := service.NewResultBridge(store, cfg.Storage.Key)
	deps := newSessionDeps(cfg, results)

	sessions := service.NewSessionManager(func(ctx context.Context, id uuid.UUID) *service.Session {
		return service.NewSession(ctx, id, deps,
			service.WithAutoSubmit(cfg.Intake.AutoSubmit),
			service.WithNotificationTTL(cfg.Notification.TTL),
			service.WithOnSuccess(func(*domain.AnalysisResult) {
				log.Printf("session %s: analysis ready", id)
			}),
		)
	}, cfg.Session.IdleTTL, cfg.Session.SweepInterval, nil)
	sessions.Start()
	defer sessions.Stop()

	app := newApp(cfg, sessions, results, deps)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on port %s", cfg.App.Port)
		return app.Listen(":" + cfg.App.Port)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Shutting down server...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Println("Server stopped")
	return nil
}

func newApp(cfg *config.Config, sessions *service.SessionManager, results domain.ResultBridge, deps service.SessionDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ErrorHandler: customErrorHandler,
		// oversized resumes must reach the validator to get its rejection message
		BodyLimit: int(2*cfg.Intake.MaxFileSize) + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: false,
	}))

	routes.Setup(app, routes.Handlers{
		Intake:  handler.NewIntakeHandler(deps.Validator, cfg.Intake.AutoSubmit),
		Session: handler.NewSessionHandler(sessions, cfg.Session.WaitTimeout),
		Result:  handler.NewResultHandler(sessions, results),
	}, routes.Middlewares{
		Session: middleware.NewSessionMiddleware(sessions),
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
