package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"skilla/internal/config"
	"skilla/internal/database"
	"skilla/internal/database/migration"
	"skilla/internal/database/migrations"
	dbpostgres "skilla/internal/database/postgres"
	"skilla/internal/domain/onboarding"
	"skilla/internal/infrastructure/cache"
	remotepassport "skilla/internal/infrastructure/passport"
	"skilla/internal/pkg/jwt"
	"skilla/internal/repository"
	ucadmin "skilla/internal/usecase/admin"
	uconboarding "skilla/internal/usecase/onboarding"
	ucpassport "skilla/internal/usecase/passport"
	ucuser "skilla/internal/usecase/user"
	"skilla/internal/ws"
)

type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   jwt.Service

	Roles *repository.PostgresUserRoleRepository

	Onboarding *uconboarding.Service
	Passports  *ucpassport.Service
	Profiles   *ucuser.Service
	Admin      *ucadmin.Service
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrationRunner(cfg.Database, logger).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		Hub:    ws.NewHub(logger),
		JWT:    jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.Issuer),
	}
	if err := c.wire(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func migrationRunner(cfg config.DatabaseConfig, logger *log.Logger) migration.Runner {
	if cfg.MigrationsDir != "" {
		return migration.FromDir(cfg.MigrationsDir, logger)
	}
	return migration.Runner{FS: migrations.FS, Logger: logger}
}

func (c *Container) wire() error {
	questionRepo := repository.NewPostgresOnboardingQuestionRepository(c.DB)
	responseRepo := repository.NewPostgresOnboardingResponseRepository(c.DB)
	profileRepo := repository.NewPostgresProfileRepository(c.DB)
	passportRepo := repository.NewPostgresSkillPassportRepository(c.DB)
	c.Roles = repository.NewPostgresUserRoleRepository(c.DB)

	ttl := c.Config.Redis.TTL
	questions := uconboarding.NewCachedQuestions(questionRepo, c.Cache, ttl, c.Logger)

	generator, err := c.passportGenerator(questions, profileRepo, passportRepo)
	if err != nil {
		return err
	}
	persisting := ucpassport.NewPersistingGenerator(generator, passportRepo, c.Cache, c.Logger)

	c.Onboarding = uconboarding.NewService(
		questions,
		responseRepo,
		persisting,
		passportRepo,
		c.Roles,
		ws.NewNotifier(c.Hub),
		uconboarding.Config{
			SkillsQuestionOrder: c.Config.Onboarding.SkillsQuestionOrder,
			RequestTimeout:      c.Config.Onboarding.RequestTimeout,
			SessionIdle:         c.Config.Onboarding.SessionIdle,
		},
		c.Logger,
	)
	c.Passports = ucpassport.NewService(passportRepo, c.Cache, ttl, c.Logger)
	c.Profiles = ucuser.NewService(profileRepo)
	c.Admin = ucadmin.NewService(responseRepo, questionRepo, passportRepo, c.Cache, ttl, c.Logger)
	return nil
}

func (c *Container) passportGenerator(
	questions uconboarding.QuestionSource,
	profiles ucpassport.ProfileReader,
	stored remotepassport.StoredPassports,
) (onboarding.PassportGenerator, error) {
	switch c.Config.Passport.Generator {
	case config.GeneratorRemote:
		g, err := remotepassport.NewRemoteGenerator(c.Config.Passport.GeneratorURL, c.Config.Passport.Timeout, c.Logger)
		if err != nil {
			return nil, err
		}
		c.Logger.Printf("[Passport] using remote generator url=%s", c.Config.Passport.GeneratorURL)
		return g.WithStoredPassports(stored), nil
	case config.GeneratorLocal, "":
		return ucpassport.NewLocalGenerator(questions, profiles, c.Config.Onboarding.SkillsQuestionOrder), nil
	default:
		return nil, fmt.Errorf("unknown passport generator %q", c.Config.Passport.Generator)
	}
}

// Start runs the background workers until ctx is done.
func (c *Container) Start(ctx context.Context) {
	go c.Hub.Run(ctx)
	go c.Onboarding.RunJanitor(ctx)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
