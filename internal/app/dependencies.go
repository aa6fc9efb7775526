package app

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/internal/cache"
	"github.com/campussync/campussync/internal/config"
	"github.com/campussync/campussync/internal/utils"
	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/clubsoc"
	"github.com/campussync/campussync/pkg/provider"
	"github.com/campussync/campussync/pkg/scientia"
	"github.com/campussync/campussync/pkg/term"
	"github.com/campussync/campussync/pkg/timetable"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Cache cache.Cache

	ScientiaClient   *scientia.Client
	ScientiaProvider *scientia.Provider

	ClubSocClient   *clubsoc.Client
	ClubSocProvider *clubsoc.Provider

	CatalogRouter   *category.Router
	CategoryHandler *category.CategoryHandler

	TermCalendar term.Calendar

	TimetableService *timetable.Service
	TimetableHandler *timetable.TimetableHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisAddr)
		if err != nil {
			return nil, err
		}
		deps.Cache = redisCache
	} else {
		log.Info("No Redis address configured, using the in-process cache")
		deps.Cache = cache.NewMemoryCache()
	}

	loc, err := time.LoadLocation(cfg.Timetable.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timetable timezone %q: %w", cfg.Timetable.Timezone, err)
	}

	termStart, err := time.ParseInLocation("2006-01-02", cfg.Term.Start, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid term start %q: %w", cfg.Term.Start, err)
	}
	deps.TermCalendar, err = term.NewCalendar(termStart, cfg.Term.Weeks)
	if err != nil {
		return nil, err
	}

	deps.ScientiaClient = scientia.NewClient(cfg.Timetable.BaseURL, cfg.Timetable.Institution, deps.Cache, cfg.Cache.TTL)
	deps.ScientiaProvider = scientia.NewProvider(deps.ScientiaClient, loc, deps.Clock)

	deps.ClubSocClient = clubsoc.NewClient(cfg.ClubSoc.BaseURL, deps.Cache, cfg.Cache.TTL)
	deps.ClubSocProvider = clubsoc.NewProvider(deps.ClubSocClient, deps.TermCalendar, loc, deps.Clock)

	deps.CatalogRouter = category.NewRouter()
	deps.CatalogRouter.Register(deps.ScientiaProvider, deps.ScientiaProvider.Kinds()...)
	deps.CatalogRouter.Register(deps.ClubSocProvider, deps.ClubSocProvider.Kinds()...)
	deps.CategoryHandler = category.NewCategoryHandler(deps.CatalogRouter)

	providers := []provider.Provider{deps.ScientiaProvider, deps.ClubSocProvider}
	deps.TimetableService = timetable.NewService(deps.CatalogRouter, providers, deps.TermCalendar)
	deps.TimetableHandler = timetable.NewTimetableHandler(deps.TimetableService, deps.TermCalendar, deps.Clock)

	return deps, nil
}
