package app

import (
	"hr-portal/config"
	"hr-portal/internal/blob"
	"hr-portal/internal/identity"
	"hr-portal/internal/notify"
	"hr-portal/internal/services"
	"hr-portal/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Application holds core application dependencies.
type Application struct {
	Config      *config.Config
	DBPool      *pgxpool.Pool // nil with the memory driver
	RedisClient *redis.Client // nil unless redis is enabled
	Store       storage.Store
	Blobs       blob.Store
	Hub         *notify.Hub      // local subscribers of the notification stream
	Notifier    notify.Publisher // the hub, or the Redis bridge feeding it
	Verifier    *identity.Verifier
	Validator   *validator.Validate

	JobService         services.JobService
	ApplicationService services.ApplicationService
	CandidateService   services.CandidateService
	OverviewService    services.OverviewService
}

// New wires the services on top of the given infrastructure. notifier may be
// nil, in which case events go straight to hub.
func New(cfg *config.Config, store storage.Store, blobs blob.Store, hub *notify.Hub, notifier notify.Publisher) *Application {
	if notifier == nil {
		notifier = hub
	}
	validate := validator.New()

	return &Application{
		Config:    cfg,
		Store:     store,
		Blobs:     blobs,
		Hub:       hub,
		Notifier:  notifier,
		Verifier:  identity.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer),
		Validator: validate,

		JobService:         services.NewJobService(store, notifier, validate),
		ApplicationService: services.NewApplicationService(store, blobs, notifier, validate),
		CandidateService:   services.NewCandidateService(store, blobs, validate),
		OverviewService:    services.NewOverviewService(store),
	}
}
