package main

import (
	"context"
	"fmt"
	"log"

	"github.com/raflytch/resume-analyzer/internal/config"
	"github.com/raflytch/resume-analyzer/internal/database"
	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/internal/repository"
	"github.com/raflytch/resume-analyzer/internal/service"
	"github.com/raflytch/resume-analyzer/pkg/validator"
)

func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newResultStore opens the backend selected by STORAGE_DRIVER. The returned
// cleanup func releases its connection.
func newResultStore(ctx context.Context, cfg *config.Config) (domain.ResultStore, func(), error) {
	switch cfg.Storage.Driver {
	case "redis":
		client, err := database.NewRedisConnection(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Storing analysis results in redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		return repository.NewResultRedisRepository(client), func() { client.Close() }, nil

	case "postgres":
		db, err := database.NewPostgresConnection(cfg.DatabaseDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewResultPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Printf("Storing analysis results in postgres database %s", cfg.Database.Name)
		return repo, func() { db.Close() }, nil

	case "file", "":
		log.Printf("Storing analysis results under %s", cfg.Storage.Dir)
		return repository.NewResultFileRepository(cfg.Storage.Dir), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func newFileValidator(cfg *config.Config) *validator.FileValidator {
	return validator.NewFileValidator(
		validator.WithMaxSize(cfg.Intake.MaxFileSize),
		validator.WithAllowedTypes(cfg.Intake.AllowedTypes),
		validator.WithTypeEnforcement(cfg.Intake.EnforceType),
	)
}

func newSessionDeps(cfg *config.Config, results domain.ResultBridge) service.SessionDeps {
	return service.SessionDeps{
		Validator: newFileValidator(cfg),
		Submitter: service.NewSubmitter(service.SubmitterConfig{
			BaseURL:          cfg.Analyzer.BaseURL,
			Timeout:          cfg.Analyzer.Timeout,
			MaxResponseBytes: cfg.Analyzer.MaxResponseBytes,
		}),
		Results: results,
	}
}
