package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/basket-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/basket-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/basket-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/basket-backend/internal/infrastructure/auth"
	"github.com/DRSN-tech/basket-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/basket-backend/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/basket-backend/internal/repository/minio"
	"github.com/DRSN-tech/basket-backend/internal/repository/mongodb"
	mongoConv "github.com/DRSN-tech/basket-backend/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/basket-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/basket-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/basket-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/basket-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/closer"
	"github.com/DRSN-tech/basket-backend/pkg/clients"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
	"github.com/DRSN-tech/basket-backend/pkg/postgres"
	"github.com/DRSN-tech/basket-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	initTimeout     = 15 * time.Second
	shutdownTimeout = 10 * time.Second
	cleanupTimeout  = 5 * time.Second
)

// App собирает зависимости и управляет жизненным циклом серверов и фоновых воркеров.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker

	// bgCtx отменяется последним, после закрытия всех ресурсов
	bgCtx        context.Context
	bgCancel     context.CancelFunc
	workerCtx    context.Context
	workerCancel context.CancelFunc
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	// Цены в ответах API отдаются JSON-числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true

	bgCtx, bgCancel := context.WithCancel(context.Background())
	workerCtx, workerCancel := context.WithCancel(bgCtx)
	a := &App{
		cfg:          cfg,
		logger:       logger,
		closer:       closer.NewCloser(0),
		bgCtx:        bgCtx,
		bgCancel:     bgCancel,
		workerCtx:    workerCtx,
		workerCancel: workerCancel,
	}

	if err := a.init(); err != nil {
		bgCancel()
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(closeCtx); closeErr != nil {
			logger.Warnf("partial init cleanup: %v", closeErr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	// PostgreSQL
	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.closer.AddSimple("postgres", func() error { db.Close(); return nil })

	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.UserConverter{})
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverter{})
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{})
	txManager := tr.NewManager(db.Pool)

	// MongoDB
	mongoClient, err := clients.NewMongoClient(ctx, a.cfg.Mongo)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to mongodb")
		return err
	}
	a.closer.Add("mongodb", mongoClient.Close)

	cartRepo := mongodb.NewCartRepo(mongoClient.DB, a.cfg.Mongo.CartCollection, mongoConv.CartConverter{})
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		a.logger.Errorf(err, "failed to create mongodb indexes")
		return err
	}

	// Redis
	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.AddSimple("redis", redisClient.Close)
	if err := redisClient.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return err
	}
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductConverter{}, a.cfg.Redis, a.logger)

	// MinIO
	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return err
	}
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return err
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, a.bgCtx)
	a.closer.Add("minio cleanup", func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, cleanupTimeout)
		defer cancel()
		if err := imagesInfra.WaitForCleanup(waitCtx); err != nil {
			a.logger.Warnf("MinIO cleanup did not finish before shutdown, some objects may remain: %v", err)
		}
		return nil
	})

	// Kafka
	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.AddSimple("kafka producer", producer.Close)
	if err := producer.EnsureTopic(5 * time.Second); err != nil {
		// Топик может создать и сам брокер; outbox дождётся его доступности.
		a.logger.Warnf("failed to ensure kafka topic: %v", err)
	}

	a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn, pgdb.OutboxChannel)
	a.closer.AddSimple("outbox worker", func() error {
		a.workerCancel()
		a.worker.Stop()
		return nil
	})

	// Usecases
	encoder := kafka.NewProtoEncoder()
	authUC := usecase.NewAuthUC(
		userRepo,
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		auth.NewJWTManager(a.cfg.Auth),
		a.cfg.Auth.AdminEmails,
		a.logger,
	)
	productUC := usecase.NewProductUC(
		productRepo,
		categoryRepo,
		imageRepo,
		cacheRepo,
		imagesInfra,
		outboxRepo,
		encoder,
		txManager,
		a.logger,
	)
	cartUC := usecase.NewCartUC(cartRepo, productRepo, cacheRepo, outboxRepo, encoder, txManager, a.logger)

	// Delivery
	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(authUC, productUC, cartUC, a.cfg.Http.SwaggerURL)
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)

	return nil
}

// Run запускает серверы и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	a.worker.Start(a.workerCtx)

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.stop()

	return appErr
}

func (a *App) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// health переходит в NOT_SERVING до остановки HTTP, чтобы балансировщик успел убрать инстанс
	if err := a.grpcSrv.Stop(shutdownCtx); err != nil {
		a.logger.Warnf("gRPC server shutdown error: %v", err)
	}

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("%v", err)
	}
	a.bgCancel()

	a.logger.Infof("Application shutdown complete")
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
