// Package bootstrap builds the repositories, gateways and domain services
// shared by cmd/server and cmd/worker.
package bootstrap

import (
	"context"
	"fmt"

	"onghub/internal/config"
	"onghub/internal/domain/application"
	"onghub/internal/domain/auth"
	"onghub/internal/domain/nomenclature"
	"onghub/internal/domain/organization"
	"onghub/internal/domain/statistics"
	"onghub/internal/domain/user"
	"onghub/internal/infrastructure/anaf"
	"onghub/internal/infrastructure/filestorage"
	"onghub/internal/infrastructure/mail"
	"onghub/internal/infrastructure/storage/postgres"
	"onghub/internal/infrastructure/storage/postgres/application_repo"
	"onghub/internal/infrastructure/storage/postgres/nomenclature_repo"
	"onghub/internal/infrastructure/storage/postgres/organization_repo"
	"onghub/internal/infrastructure/storage/postgres/statistics_repo"
	"onghub/internal/infrastructure/storage/postgres/user_repo"
)

// App holds the process-wide dependencies.
type App struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	JWT       *auth.JWTService

	Organizations *organization.Service
	Nomenclature  *nomenclature.Service
	Applications  *application.Service
	Statistics    *statistics.Service
	Users         *user.Service
}

// New connects to PostgreSQL and the object store and wires every service.
// appName is reported to PostgreSQL as application_name.
func New(ctx context.Context, cfg *config.Config, appName string) (*App, error) {
	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.Database, appName))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	app, err := wire(ctx, cfg, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return app, nil
}

func wire(ctx context.Context, cfg *config.Config, pool *postgres.Pool) (*App, error) {
	txm := postgres.NewTxManager(pool)

	storage, err := filestorage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}
	mailer, err := mail.New(cfg.Mail)
	if err != nil {
		return nil, fmt.Errorf("load mail templates: %w", err)
	}
	archive, err := postgres.NewArchiveStore(txm)
	if err != nil {
		return nil, fmt.Errorf("create archive store: %w", err)
	}
	outbox := postgres.NewOutboxPublisher(txm)

	nomenclatureService := nomenclature.NewService(nomenclature_repo.New(txm))
	userService := user.NewService(user_repo.New(txm))

	orgService := organization.NewService(organization.Dependencies{
		Store:        organization_repo.New(txm),
		TxManager:    txm,
		Nomenclature: nomenclatureService,
		Storage:      storage,
		Registry:     anaf.New(cfg.ANAF, nil),
		Mailer:       mailer,
		Users:        userService,
		Events:       outbox,
		Archiver:     archive,
	}, organization.Config{
		ANAFFailOnCreate:    cfg.Policy.ANAFFailOnCreate,
		ReportingYearOffset: cfg.Policy.ReportingYearOffset,
	})

	appService := application.NewService(application_repo.New(txm), txm, storage, outbox)

	return &App{
		Pool:          pool,
		TxManager:     txm,
		JWT:           auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWT.Secret, cfg.JWT.Issuer)),
		Organizations: orgService,
		Nomenclature:  nomenclatureService,
		Applications:  appService,
		Statistics:    statistics.NewService(statistics_repo.New(txm), userService, appService, orgService.Financial()),
		Users:         userService,
	}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	a.Pool.Close()
}
