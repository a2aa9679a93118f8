package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	config "github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	v1Grpc "github.com/vansh-khaneja/WearWhat-backend/internal/delivery/v1/grpc"
	v1Http "github.com/vansh-khaneja/WearWhat-backend/internal/delivery/v1/http"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/infrastructure/advisor"
	"github.com/vansh-khaneja/WearWhat-backend/internal/infrastructure/composer"
	"github.com/vansh-khaneja/WearWhat-backend/internal/infrastructure/kafka"
	"github.com/vansh-khaneja/WearWhat-backend/internal/infrastructure/metrics"
	minioInfra "github.com/vansh-khaneja/WearWhat-backend/internal/infrastructure/minio"
	ml_service "github.com/vansh-khaneja/WearWhat-backend/internal/infrastructure/ml-service"
	"github.com/vansh-khaneja/WearWhat-backend/internal/repository/memory"
	s3Repo "github.com/vansh-khaneja/WearWhat-backend/internal/repository/minio"
	"github.com/vansh-khaneja/WearWhat-backend/internal/repository/pgdb"
	pgdbConv "github.com/vansh-khaneja/WearWhat-backend/internal/repository/pgdb/converter"
	qdrantRepo "github.com/vansh-khaneja/WearWhat-backend/internal/repository/qdrant"
	"github.com/vansh-khaneja/WearWhat-backend/internal/repository/redis"
	redisConv "github.com/vansh-khaneja/WearWhat-backend/internal/repository/redis/converter"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/clients"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/closer"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/postgres"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	cleanupWait     = 5 * time.Second
)

// App держит собранные зависимости и серверы.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	// отменяется при остановке, на нём живут фоновые удаления из S3
	bgCtx    context.Context
	bgCancel context.CancelFunc

	imagesInfra  *minioInfra.MinioInfrastructure
	outboxWorker *kafka.OutboxWorker
	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
}

// NewApp поднимает подключения и собирает usecase-слой. При ошибке уже открытое закрывается.
func NewApp(cfg *config.Config, log logger.Logger) (_ *App, err error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}
	a.bgCtx, a.bgCancel = context.WithCancel(context.Background())

	defer func() {
		if err != nil {
			a.bgCancel()
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if closeErr := a.closer.Close(ctx); closeErr != nil {
				log.Warnf("partial init cleanup: %v", closeErr)
			}
		}
	}()

	initCtx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	db, err := initPGDB(initCtx, log, cfg)
	if err != nil {
		return nil, err
	}
	a.closer.AddSimple("postgres", func() error {
		db.Close()
		return nil
	})

	garmentRepo := pgdb.NewGarmentRepo(db.Pool, pgdbConv.GarmentConverter{})
	tagTreeRepo := pgdb.NewTagTreeRepo(db.Pool)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{})
	calendarRepo := pgdb.NewCalendarOutfitRepo(db.Pool, pgdbConv.CalendarOutfitConverter{})
	transactor := pgdb.NewTransactor(db.Pool)

	index, err := a.initVectorIndex(initCtx)
	if err != nil {
		return nil, err
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	if err := redisClient.Ping(initCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("redis", redisClient.Close)
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.GarmentConverter{}, cfg.Redis, log)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(initCtx, minioClient, cfg.Minio.BucketName); err != nil {
		log.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	a.imagesInfra = minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, a.bgCtx)

	encoder, err := a.initEncoder()
	if err != nil {
		return nil, err
	}

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("kafka producer", producer.Close)
	if err := producer.EnsureTopic(initTimeout); err != nil {
		// топик мог создать кто-то другой, публикация сама скажет, если его нет
		log.Warnf("kafka topic check failed: %v", err)
	}
	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Db.DSN())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stylingMetrics := metrics.NewStylingMetrics(registry)

	outfitComposer := composer.NewComposer(composer.NewHTTPDownloader(cfg.Styling), stylingMetrics, cfg.Styling, log)

	var outfitAdvisor usecase.OutfitAdvisor
	if cfg.OpenAI.APIKey != "" {
		outfitAdvisor = advisor.NewAdvisor(cfg.OpenAI, log)
	} else {
		log.Warnf("OPENAI_API_KEY is empty, recommendations use keyword rules")
		outfitAdvisor = advisor.NewRuleAdvisor()
	}

	readPolicy := retry.Policy{
		Attempts: cfg.Styling.ReadAttempts,
		Base:     100 * time.Millisecond,
		Max:      time.Second,
	}

	catalog := usecase.NewGarmentCatalog(garmentRepo, cacheRepo, log)
	matcher := usecase.NewSimilarityMatcher(index, catalog, cfg.Styling.VectorTimeout, readPolicy, log)

	stylingUC := usecase.NewStylingUC(
		catalog,
		index,
		matcher,
		outfitComposer,
		a.imagesInfra,
		stylingMetrics,
		log,
		cfg.Minio.OutfitFolder,
		cfg.Styling.VectorTimeout,
		readPolicy,
	)
	wardrobeUC := usecase.NewWardrobeUC(
		garmentRepo,
		tagTreeRepo,
		outboxRepo,
		index,
		transactor,
		encoder,
		a.imagesInfra,
		catalog,
		matcher,
		log,
		cfg.Minio.WardrobeFolder,
		usecase.MaxUploadImages,
	)
	recommendationUC := usecase.NewRecommendationUC(
		tagTreeRepo,
		catalog,
		outfitAdvisor,
		outfitComposer,
		a.imagesInfra,
		log,
		cfg.Minio.OutfitFolder,
	)

	calendarUC := usecase.NewCalendarUC(calendarRepo, transactor, log)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.grpcSrv.RegisterServices(stylingUC)

	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(v1Http.Handlers{
		Wardrobe:       wardrobeUC,
		Styling:        stylingUC,
		Recommendation: recommendationUC,
		Calendar:       calendarUC,
		Auth:           v1Http.NewAuthenticator(cfg.Auth.JWTSecret, log),
		Metrics:        stylingMetrics.Handler(),
		SwaggerURL:     cfg.Http.SwaggerURL,
	})
	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// Run запускает серверы и outbox-воркер и блокируется до сигнала или падения сервера.
func (a *App) Run() error {
	log := a.logger

	a.outboxWorker.Start(a.bgCtx)

	grpcErrCh := make(chan error, 1)
	go func() {
		log.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			log.Errorf(err, "gRPC server failed")
			grpcErrCh <- err
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		log.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.stop()

	log.Infof("Application shutdown complete")
	return appErr
}

func (a *App) stop() {
	log := a.logger

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		log.Errorf(err, "HTTP server shutdown error")
	} else {
		log.Infof("HTTP server stopped")
	}

	if err := a.grpcSrv.Stop(shutdownCtx); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			log.Errorf(err, "gRPC server shutdown error")
		} else {
			log.Warnf("gRPC server shutdown timeout")
		}
	}

	a.outboxWorker.Stop()

	cleanupCtx, cleanupCancel := context.WithTimeout(shutdownCtx, cleanupWait)
	if err := a.imagesInfra.WaitForCleanup(cleanupCtx); err != nil {
		log.Warnf("MinIO cleanup did not finish before shutdown, some objects may remain: %v", err)
	} else {
		log.Infof("MinIO cleanup completed")
	}
	cleanupCancel()
	a.bgCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		log.Warnf("%v", err)
	}
}

func (a *App) initVectorIndex(ctx context.Context) (usecase.VectorIndex, error) {
	cfg := a.cfg.Qdrant

	if cfg.Backend == config.VectorBackendMemory {
		a.logger.Warnf("using in-memory vector index, embeddings are lost on restart")
		return memory.NewVectorIndex(int(cfg.VectorSize)), nil
	}

	qdrantClient, err := clients.NewQdrantClient(cfg)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize qdrant")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("qdrant", qdrantClient.Close)

	if err := clients.EnsureCollection(ctx, qdrantClient, domain.IndexedPayloadFields); err != nil {
		a.logger.Errorf(err, "failed to initialize qdrant collection")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return qdrantRepo.NewEmbeddingRepo(qdrantClient.Client, cfg), nil
}

func (a *App) initEncoder() (usecase.EncoderInfra, error) {
	cfg := a.cfg.Ml

	if cfg.Strategy == config.EncoderStrategyMock {
		a.logger.Warnf("using mock encoder, tags and vectors are random")
		return ml_service.NewMockEncoder(a.cfg.Qdrant.VectorSize), nil
	}

	conn, err := grpc.NewClient(
		cfg.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize grpc client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("ml grpc conn", conn.Close)

	return ml_service.NewMLService(conn, cfg, a.logger), nil
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(cfg.Db.MigrationsDir, logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
