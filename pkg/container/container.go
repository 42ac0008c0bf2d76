package container

import (
	"context"
	"fmt"
	"time"

	"school-library-backend/internal/config"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/pkg/clock"
	"school-library-backend/pkg/jwt"
	"school-library-backend/pkg/logger"

	authHandler "school-library-backend/internal/domains/auth/handler"
	authService "school-library-backend/internal/domains/auth/service"
	bookHandler "school-library-backend/internal/domains/book/handler"
	bookRepo "school-library-backend/internal/domains/book/repository"
	bookService "school-library-backend/internal/domains/book/service"
	borrowHandler "school-library-backend/internal/domains/borrow/handler"
	borrowRepo "school-library-backend/internal/domains/borrow/repository"
	borrowService "school-library-backend/internal/domains/borrow/service"
	ledgerHandler "school-library-backend/internal/domains/ledger/handler"
	ledgerRepo "school-library-backend/internal/domains/ledger/repository"
	ledgerService "school-library-backend/internal/domains/ledger/service"
	reportHandler "school-library-backend/internal/domains/report/handler"
	reportRepo "school-library-backend/internal/domains/report/repository"
	reportService "school-library-backend/internal/domains/report/service"
	studentHandler "school-library-backend/internal/domains/student/handler"
	studentRepo "school-library-backend/internal/domains/student/repository"
	studentService "school-library-backend/internal/domains/student/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application.
// Order of construction: config -> infrastructure -> repositories -> services -> handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.DB
	Clock      clock.Clock
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	BookRepo    bookRepo.RepositoryInterface
	StudentRepo studentRepo.RepositoryInterface
	BorrowRepo  borrowRepo.RepositoryInterface
	LedgerRepo  ledgerRepo.RepositoryInterface
	ReportRepo  reportRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================
	LedgerService     ledgerService.ServiceInterface
	BookService       bookService.ServiceInterface
	BulkImportService bookService.BulkImportServiceInterface
	StudentService    studentService.ServiceInterface
	BorrowService     borrowService.ServiceInterface
	ReportService     reportService.ServiceInterface
	AuthService       authService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	BookHandler    *bookHandler.Handler
	StudentHandler *studentHandler.Handler
	BorrowHandler  *borrowHandler.Handler
	ReportHandler  *reportHandler.Handler
	LedgerHandler  *ledgerHandler.Handler
	AuthHandler    *authHandler.Handler
}

// ========================================
// CONSTRUCTORS
// ========================================

// NewContainer loads configuration from the environment, opens the database
// and builds the whole dependency graph.
func NewContainer(ctx context.Context) (*Container, error) {
	logger.Debug("Initializing DI container")

	// STEP 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	// STEP 2: database
	db, err := OpenDatabase(ctx, dbConfig, cfg.App.AutoMigrate)
	if err != nil {
		return nil, err
	}

	// STEP 3: everything else
	c := New(cfg, db, clock.System())
	logger.Info("DI container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
		"db_driver":   db.Driver,
	})
	return c, nil
}

// OpenDatabase connects and optionally applies pending migrations
func OpenDatabase(ctx context.Context, dbConfig *database.DBConfig, migrate bool) (*database.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.Open(connectCtx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrate {
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		if applied > 0 {
			logger.Info("Migrations applied", map[string]interface{}{"count": applied})
		}
	}
	return db, nil
}

// New wires repositories, services and handlers over an open database.
// Tests and libctl use it directly with their own clock.
func New(cfg *config.Config, db *database.DB, clk clock.Clock) *Container {
	c := &Container{
		Config:     cfg,
		DB:         db,
		Clock:      clk,
		JWTManager: jwt.NewManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenExpiry)*time.Minute),
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()
	return c
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	c.BookRepo = bookRepo.NewRepository(c.DB)
	c.StudentRepo = studentRepo.NewRepository(c.DB)
	c.BorrowRepo = borrowRepo.NewRepository(c.DB)
	c.LedgerRepo = ledgerRepo.NewRepository(c.DB)
	c.ReportRepo = reportRepo.NewRepository(c.DB)
}

func (c *Container) initServices() {
	sqlDB := c.DB.DB

	// Ledger first: book and borrow services both go through it
	c.LedgerService = ledgerService.NewService(sqlDB, c.LedgerRepo)

	c.BookService = bookService.NewService(sqlDB, c.BookRepo, c.LedgerService, c.BorrowRepo, c.Clock)
	c.BulkImportService = bookService.NewBulkImportService(sqlDB, c.BookRepo, c.Clock)
	c.StudentService = studentService.NewService(sqlDB, c.StudentRepo, c.BorrowRepo, c.Clock)
	c.BorrowService = borrowService.NewService(sqlDB, c.BorrowRepo, c.StudentRepo, c.LedgerService, c.Clock)
	c.ReportService = reportService.NewService(
		c.ReportRepo,
		c.Clock,
		c.Config.Loan.ActivitiesLimit,
		c.Config.Loan.MaxActivities,
	)
	c.AuthService = authService.NewService(c.Config.Auth.Username, c.Config.Auth.PasswordHash, c.JWTManager, c.Clock)
}

func (c *Container) initHandlers() {
	loanPeriod := time.Duration(c.Config.Loan.DefaultPeriodDays) * 24 * time.Hour

	c.BookHandler = bookHandler.NewHandler(c.BookService, c.BulkImportService)
	c.StudentHandler = studentHandler.NewHandler(c.StudentService)
	c.BorrowHandler = borrowHandler.NewHandler(c.BorrowService, c.Clock, loanPeriod)
	c.ReportHandler = reportHandler.NewHandler(c.ReportService)
	c.LedgerHandler = ledgerHandler.NewHandler(c.LedgerService)
	c.AuthHandler = authHandler.NewHandler(c.AuthService)
}

// Cleanup releases resources on shutdown
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database", err)
			return
		}
		logger.Debug("Database connections closed")
	}
}
