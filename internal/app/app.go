package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"learnhub_portal/internal/config"
	"learnhub_portal/internal/controller"
	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/identity"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/repository"
	"learnhub_portal/internal/seed"
	"learnhub_portal/internal/service"
	"learnhub_portal/internal/state"
	"learnhub_portal/internal/validation"
	"learnhub_portal/pkg/configwatcher"
	"learnhub_portal/pkg/database"
	"learnhub_portal/pkg/logger"
	"learnhub_portal/pkg/monitoring"
	"learnhub_portal/pkg/security"
	"learnhub_portal/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config     *config.Config
	ConfigDir  string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client
	InstanceID string

	services        *services
	limiter         *security.IPRateLimiter
	tracer          *sdktrace.TracerProvider
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)

	adminEmail  atomic.Value // string
	defaultLang atomic.Value // i18n.Language
}

type repositories struct {
	documents   repository.DocumentStore
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	credentials repository.CredentialStore
	sessions    repository.SessionStore
	broadcaster repository.Broadcaster
	states      state.Store
}

type services struct {
	catalog     *i18n.Catalog
	machine     *state.Machine
	tracker     *service.RenderTracker
	provider    *identity.Provider
	provisioner *service.UserProvisioner
	storage     *service.StorageService
	session     *service.SessionService
	screen      *service.ScreenService
	app         *service.AppService
	auth        *service.AuthService
	hub         *service.EventHub
}

type controllers struct {
	auth   *controller.AuthController
	app    *controller.AppController
	event  *controller.EventController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(cfg *config.Config) *repositories {
	r := &repositories{}

	if a.DB != nil {
		r.documents = repository.NewGormDocumentStore(a.DB)
		r.credentials = repository.NewCredentialRepository(a.DB)
	} else {
		r.documents = repository.NewMemoryDocumentStore()
		r.credentials = repository.NewMemoryCredentialRepository()
	}

	if a.Redis != nil {
		r.sessions = repository.NewRedisSessionStore(a.Redis, cfg.Session.TTL)
		r.broadcaster = repository.NewRedisBroadcaster(a.Redis, a.InstanceID)
		r.states = repository.NewRedisStateStore(a.Redis, cfg.Session.TTL)
	} else {
		r.sessions = repository.NewMemorySessionStore()
		r.broadcaster = repository.NewMemoryBus().Broadcaster(a.InstanceID)
		r.states = state.NewMemoryStore()
	}

	r.users = repository.NewUserRepository(r.documents)
	r.courses = repository.NewCourseRepository(r.documents)
	r.enrollments = repository.NewEnrollmentRepository(r.documents, r.courses)
	return r
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	s := &services{}

	catalog, err := i18n.NewCatalog(a.language())
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	s.catalog = catalog
	s.machine = state.NewMachine(repos.states, a.language)
	s.tracker = service.NewRenderTracker()
	s.storage = service.NewStorageService(cfg)

	s.provisioner = service.NewUserProvisioner(repos.users, func() string {
		return a.adminEmail.Load().(string)
	})
	if cfg.Seed {
		s.provisioner.OnCreate(func(ctx context.Context, u model.User) error {
			return seed.Enroll(ctx, repos.enrollments, u.ID)
		})
	}

	opts := []identity.Option{identity.WithProvisioner(s.provisioner.Provision)}
	if cfg.GoogleEnabled() {
		opts = append(opts, identity.WithFederation(identity.NewGoogleFederation(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			cfg.OAuth.GoogleRedirectURL,
		)))
	}
	s.provider = identity.NewProvider(repos.credentials, repos.sessions, repos.broadcaster, cfg.OAuth.StateSecret, opts...)

	// the hub asks the app service for a connection's first state and
	// the app service publishes through the hub
	s.hub = service.NewEventHub(a.Redis, func(ctx context.Context, clientID string) (state.AppState, error) {
		return s.app.State(ctx, clientID)
	})
	s.hub.SetAllowedOrigins(cfg.CORS.AllowedOrigins)
	a.RegisterConfigCallback(func(next *config.Config) {
		s.hub.SetAllowedOrigins(next.CORS.AllowedOrigins)
	})
	s.session = service.NewSessionService(s.provider, repos.users, s.machine, s.hub)
	s.app = service.NewAppService(s.session, s.machine, s.tracker, s.hub)
	s.screen = service.NewScreenService(repos.users, repos.courses, repos.enrollments, s.storage, catalog, s.machine, s.tracker)
	s.auth = service.NewAuthService(s.provider, validation.New(catalog), catalog, s.tracker)

	return s, nil
}

func (a *App) initControllers(s *services, cfg *config.Config) *controllers {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &controllers{
		auth:   controller.NewAuthController(s.auth, s.app, store),
		app:    controller.NewAppController(s.app, s.screen),
		event:  controller.NewEventController(s.hub),
		health: controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewIPRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	a.RegisterConfigCallback(func(c *config.Config) {
		a.limiter.Update(c.RateLimit.MaxRequests, time.Duration(c.RateLimit.WindowMinutes)*time.Minute)
	})
	router.Use(a.limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) language() i18n.Language {
	return a.defaultLang.Load().(i18n.Language)
}

func (a *App) setReloadable(cfg *config.Config) {
	a.adminEmail.Store(strings.ToLower(strings.TrimSpace(cfg.Identity.AdminEmail)))
	lang, ok := i18n.ParseLanguage(cfg.I18n.DefaultLanguage)
	if !ok {
		logger.Log.Warn("Unknown default language, using English", zap.String("language", cfg.I18n.DefaultLanguage))
		lang = i18n.English
	}
	a.defaultLang.Store(lang)
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// NewApp connects the configured backends and builds the router. With
// the memory driver and no Redis host it needs nothing external.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Session.Secret == "" {
		logger.Log.Warn("No session secret configured, generated one for this process")
		cfg.Session.Secret = randomSecret()
	}
	if cfg.OAuth.StateSecret == "" {
		cfg.OAuth.StateSecret = cfg.Session.Secret
	}

	app := &App{
		Config:     cfg,
		ConfigDir:  "configs",
		InstanceID: uuid.NewString(),
	}
	app.setReloadable(cfg)
	app.RegisterConfigCallback(app.setReloadable)

	if cfg.Storage.Driver == config.DriverMySQL {
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		app.DB = db
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}
	app.Redis = rdb

	repos := app.initRepositories(cfg)
	if cfg.Seed {
		if _, err := seed.Load(context.Background(), repos.documents); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	svcs, err := app.initServices(repos, cfg)
	if err != nil {
		return nil, err
	}
	app.services = svcs
	ctrls := app.initControllers(svcs, cfg)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learnhub-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, svcs, cfg)

	if err := app.start(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if err := a.services.provider.Start(ctx); err != nil {
		cancel()
		return err
	}
	go a.services.hub.Run()
	go a.services.session.Run(ctx)
	return nil
}

// Close stops background work and releases connections.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil {
		a.services.hub.Stop()
		a.services.provider.Stop()
	}
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := configwatcher.WatchConfig(watchCtx, a.ConfigDir, a.applyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait for an interrupt, then give requests 5 seconds to finish
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close()

	logger.Log.Info("Server exiting")
}
