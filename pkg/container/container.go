package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"royalty-backend/internal/config"
	"royalty-backend/internal/infrastructure/database"
	"royalty-backend/internal/shared/utils"
	txdb "royalty-backend/pkg/database"
	"royalty-backend/pkg/jwt"
	"royalty-backend/pkg/metrics"

	authorHandler "royalty-backend/internal/domains/author/handler"
	authorRepo "royalty-backend/internal/domains/author/repository"
	authorService "royalty-backend/internal/domains/author/service"
	bookHandler "royalty-backend/internal/domains/book/handler"
	bookRepo "royalty-backend/internal/domains/book/repository"
	bookService "royalty-backend/internal/domains/book/service"
	reportHandler "royalty-backend/internal/domains/report/handler"
	reportRepo "royalty-backend/internal/domains/report/repository"
	reportService "royalty-backend/internal/domains/report/service"
	saleHandler "royalty-backend/internal/domains/sale/handler"
	saleRepo "royalty-backend/internal/domains/sale/repository"
	saleService "royalty-backend/internal/domains/sale/service"
	settlementHandler "royalty-backend/internal/domains/settlement/handler"
	settlementRepo "royalty-backend/internal/domains/settlement/repository"
	settlementService "royalty-backend/internal/domains/settlement/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the API process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Tx         txdb.Transactor
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AuthorRepo     authorRepo.RepositoryInterface
	BookRepo       bookRepo.RepositoryInterface
	SaleRepo       saleRepo.RepositoryInterface
	SettlementRepo settlementRepo.RepositoryInterface
	ReportRepo     reportRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================
	AuthorService     authorService.ServiceInterface
	BookService       bookService.ServiceInterface
	SaleService       saleService.ServiceInterface
	SettlementService settlementService.ServiceInterface
	ReportService     reportService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	AuthorHandler     *authorHandler.AuthorHandler
	BookHandler       *bookHandler.BookHandler
	SaleHandler       *saleHandler.SaleHandler
	SettlementHandler *settlementHandler.SettlementHandler
	ReportHandler     *reportHandler.ReportHandler

	stopMonitor context.CancelFunc
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in order: config, database,
// repositories, services, handlers.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{Config: cfg}
	utils.MaxPageSize = cfg.MaxPageSize

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(&cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.MigrateOnStartup {
		if _, err := database.Migrate(ctx, cfg.Database.DSN()); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	c.Tx = txdb.NewTransactor(db.Pool)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	metrics.RegisterPoolGauges(func() (acquired, idle, total int32) {
		stat := db.Pool.Stat()
		return stat.AcquiredConns(), stat.IdleConns(), stat.TotalConns()
	})

	monitorCtx, stop := context.WithCancel(context.Background())
	c.stopMonitor = stop
	go db.MonitorPoolHealth(monitorCtx, time.Minute)

	// ========================================
	// STEP 2: LAYERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.SaleRepo = saleRepo.NewPostgresRepository(pool)
	c.SettlementRepo = settlementRepo.NewPostgresRepository(pool)
	c.ReportRepo = reportRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	pool := c.DB.Pool

	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, pool, c.Tx)
	c.BookService = bookService.NewService(c.BookRepo, c.AuthorRepo, pool, c.Tx)
	c.SaleService = saleService.NewService(c.SaleRepo, c.BookRepo, c.AuthorRepo, pool, c.Tx)
	c.SettlementService = settlementService.NewSettlementService(c.SettlementRepo, c.AuthorRepo, c.SaleRepo, pool, c.Tx)
	c.ReportService = reportService.NewReportService(c.ReportRepo, c.BookRepo, pool)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.SaleHandler = saleHandler.NewSaleHandler(c.SaleService)
	c.SettlementHandler = settlementHandler.NewSettlementHandler(c.SettlementService)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)
}

// Cleanup releases the database pool. Call it on shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.stopMonitor != nil {
		c.stopMonitor()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
