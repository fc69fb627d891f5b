package api

import (
	"github.com/charmbracelet/log"

	"todomaster/internal/config"
	"todomaster/internal/logging"
	"todomaster/internal/remote"
	"todomaster/internal/repository/sqlite"
	"todomaster/internal/services"
	"todomaster/internal/snapshot"
	"todomaster/internal/validation"
)

// Runtime owns the dependency graph of one process
type Runtime struct {
	Config   *config.Config
	Logger   *log.Logger
	Repo     sqlite.Repository
	Services *services.ServiceContainer
	API      BusinessAPI
}

// New opens the local store and wires the remote client, snapshot cache and
// services from cfg.
func New(cfg *config.Config, logger *log.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, err
	}

	client := remote.NewFromConfig(cfg.Remote, logger)
	return NewWithDependencies(cfg, repo, client, logger), nil
}

// NewWithDependencies wires the services over an existing store and todo resource
func NewWithDependencies(cfg *config.Config, repo sqlite.Repository, resource services.TodoResource, logger *log.Logger) *Runtime {
	if logger == nil {
		logger = logging.Discard()
	}

	kv := snapshot.NewSQLiteStore(repo)
	cache := snapshot.New(kv,
		snapshot.WithKey(cfg.Cache.SnapshotKey),
		snapshot.WithMaxAge(cfg.Cache.SnapshotMaxAge),
		snapshot.WithLogger(logger),
	)

	container := &services.ServiceContainer{
		TodoService: services.NewTodoService(resource, cache, services.TodoServiceOptions{
			StaleTime: cfg.Cache.StaleTime,
			Validator: validation.NewTodoValidatorWithConfig(cfg),
			Logger:    logger,
		}),
		AuthService: services.NewAuthService(repo, services.NewKVTokenStore(kv, ""), services.AuthOptions{
			SessionTTL:    cfg.Auth.SessionTTL,
			Providers:     cfg.Auth.Providers,
			SocialBaseURL: cfg.Auth.SocialBaseURL,
			CallbackURL:   cfg.Auth.CallbackURL,
			Credentials:   validation.NewCredentialsValidatorWithConfig(cfg),
			Logger:        logger,
		}),
	}

	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Repo:     repo,
		Services: container,
		API:      NewBusinessAPI(container),
	}
}

// Close releases the local store
func (r *Runtime) Close() error {
	if r.Repo == nil {
		return nil
	}
	return r.Repo.Close()
}
