package router

import (
	"context"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/container"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
	"github.com/oksasatya/go-medicine-tracker/internal/infrastructure/gcs"
	"github.com/oksasatya/go-medicine-tracker/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-medicine-tracker/internal/infrastructure/postgres"
	"github.com/oksasatya/go-medicine-tracker/internal/infrastructure/push"
	"github.com/oksasatya/go-medicine-tracker/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-medicine-tracker/internal/interface/http"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-medicine-tracker/internal/router/modules"
	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
)

// Repositories groups one implementation of every repository port.
type Repositories struct {
	Users           repo.UserRepository
	Profiles        repo.ProfileRepository
	Medicines       repo.MedicineRepository
	Schedules       repo.ScheduleRepository
	RevokedTokens   repo.RevokedTokenRepository
	GlobalMedicines repo.GlobalMedicineRepository
	Tx              repo.Transactor
}

func buildRepositories() Repositories {
	if container.GetConfig().UseMemoryStore() {
		st := container.GetMemoryStore()
		if st == nil {
			st = memory.NewStore()
			container.SetMemoryStore(st)
		}
		return Repositories{
			Users:           st.Users(),
			Profiles:        st.Profiles(),
			Medicines:       st.Medicines(),
			Schedules:       st.Schedules(),
			RevokedTokens:   st.RevokedTokens(),
			GlobalMedicines: st.GlobalMedicines(),
			Tx:              st,
		}
	}

	pool := container.GetPGPool()
	return Repositories{
		Users:           pginfra.NewUserRepository(pool),
		Profiles:        pginfra.NewProfileRepository(pool),
		Medicines:       pginfra.NewMedicineRepository(pool),
		Schedules:       pginfra.NewScheduleRepository(pool),
		RevokedTokens:   pginfra.NewRevokedTokenRepository(pool),
		GlobalMedicines: pginfra.NewGlobalMedicineRepository(pool),
		Tx:              pginfra.NewTxManager(pool),
	}
}

// Deps holds the services shared by HTTP modules and background jobs.
type Deps struct {
	Repos         Repositories
	Auth          *application.AuthService
	Revocations   *application.RevocationService
	Users         *application.UserService
	Profiles      *application.ProfileService
	Medicines     *application.MedicineService
	Schedules     *application.ScheduleService
	Catalog       *application.CatalogService
	Notifications *application.NotificationService
}

// BuildDeps wires services from the container singletons. Optional clients
// that are absent leave their port unset: no image store, no search index,
// and a logging push sink.
func BuildDeps() *Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := buildRepositories()

	var images application.ImageStore
	if client := container.GetGCS(); client != nil && cfg.GCSBucket != "" {
		images = gcs.NewImageStore(client, cfg.GCSBucket)
	}
	var index application.CatalogIndex
	if es := container.GetES(); es != nil {
		index = search.NewCatalogIndex(es, cfg.ESCatalogIndex)
	}
	var sink application.PushSink = &push.LogSink{Logger: logger}
	if pub := container.GetRabbitPub(); pub != nil {
		sink = push.NewRabbitSink(pub)
	}

	return &Deps{
		Repos:         repos,
		Auth:          application.NewAuthService(repos.Users, container.GetJWT(), logger),
		Revocations:   application.NewRevocationService(repos.RevokedTokens, logger),
		Users:         application.NewUserService(repos.Users, logger),
		Profiles:      application.NewProfileService(repos.Profiles, repos.Medicines, repos.Schedules, repos.Tx, logger),
		Medicines:     application.NewMedicineService(repos.Medicines, repos.Profiles, repos.Schedules, repos.Tx, images, logger),
		Schedules:     application.NewScheduleService(repos.Schedules, repos.Medicines, logger),
		Catalog:       application.NewCatalogService(repos.GlobalMedicines, index, logger),
		Notifications: application.NewNotificationService(repos.Schedules, repos.Medicines, repos.Users, sink, cfg.ExpiryWindow, logger),
	}
}

func healthChecks() map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return helpers.PingRedis(ctx, rdb) }
	}
	return checks
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) *Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	d := BuildDeps()

	r.Use(middleware.Authenticate(d.Auth, d.Revocations, logger))

	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(cfg.AppName, cfg.Version, healthChecks())))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Auth, d.Revocations, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users, logger)))
	r.Add(modules.NewProfileModule(
		handlers.NewProfileHandler(d.Profiles, logger),
		handlers.NewMedicineHandler(d.Medicines, logger),
		handlers.NewScheduleHandler(d.Schedules, logger),
	))
	r.Add(modules.NewMedicineModule(
		handlers.NewMedicineHandler(d.Medicines, logger),
		handlers.NewScheduleHandler(d.Schedules, logger),
	))
	r.Add(modules.NewScheduleModule(handlers.NewScheduleHandler(d.Schedules, logger)))
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(d.Catalog, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return d
}
