package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	authPostgres "github.com/frahmantamala/leave-management/internal/auth/postgres"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	"github.com/frahmantamala/leave-management/internal/fiscal"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	leavetypePostgres "github.com/frahmantamala/leave-management/internal/leavetype/postgres"
	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/frahmantamala/leave-management/internal/transport/rest"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthService *auth.Service
	Handlers    rest.Handlers
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Config.Server, deps.AuthService, deps.Handlers, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	cal := fiscal.New(time.Month(config.LeavePolicy.FiscalStartMonth))

	eventBus := events.NewEventBus(lg)
	notifier := notification.NewService(notification.NewLogSender(lg), lg)
	notifier.Register(eventBus)

	authRepo := authPostgres.NewRepository(gormDB)
	tokenGen := auth.NewJWTTokenGenerator(config.Security)
	rbac := auth.NewRBACAuthorization(auth.NewPermissionChecker(), lg)
	authService := auth.NewService(authRepo, tokenGen, rbac, config.Security.BCryptCost)

	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	employeeService := employee.NewService(employeeRepo, lg)

	leaveTypeRepo := leavetypePostgres.NewLeaveTypeRepository(gormDB)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, lg)

	leaveRepo := leavePostgres.NewLeaveRepository(gormDB)
	balances := leave.NewBalanceCalculator(cal)
	rules := leave.NewRuleEngine(cal, balances, config.LeavePolicy)
	leaveService := leave.NewService(leaveRepo, employeeService, leaveTypeService, rules, balances, cal, eventBus, lg)

	return &Dependencies{
		Config:      config,
		Logger:      lg,
		DB:          db,
		GormDB:      gormDB,
		Router:      chi.NewRouter(),
		AuthService: authService,
		Handlers: rest.Handlers{
			Auth:      auth.NewHandler(authService),
			Employee:  employee.NewHandler(employeeService),
			LeaveType: leavetype.NewHandler(leaveTypeService),
			Leave:     leave.NewHandler(leaveService),
		},
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
