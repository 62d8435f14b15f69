package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	adminUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/admin"
	depositUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/deposit"
	referralUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/referral"
	userUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/user"
	withdrawalUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/withdrawal"

	chainport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/chain"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/handler"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/routes"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/chain"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/database"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/logger"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/payout"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/repository"
	timeProvider "github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/time"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Logger.Level, cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Setup database configuration
	dbPort, err := strconv.Atoi(cfg.Database.Port)
	if err != nil {
		log.Fatalf("Invalid database port %q: %v", cfg.Database.Port, err)
	}
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            dbPort,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      int(cfg.Database.RetryDelay / time.Second),
	}
	if err := dbConfig.Validate(); err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}

	// Connect to the database and migrate the schema
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbManager.DB(), tp, appLogger)
	eventRepo := repository.NewReferralEventRepository(dbManager.DB(), appLogger)
	withdrawalRepo := repository.NewWithdrawalRepository(dbManager.DB(), appLogger)

	// Unit of work (transaction manager)
	uow := dbManager.CreateUnitOfWork()

	// Referral engine
	rankCalculator := referralUseCase.NewRankCalculator(
		userRepo, appLogger, tp, cfg.Deposit.ActivityThresholdCents)
	distributor := referralUseCase.NewDistributor(
		uow, userRepo, rankCalculator, appLogger, tp, cfg.Deposit.ActivityThresholdCents)

	// On-chain transfer scanner over the configured RPC providers
	fetchers := make([]chainport.LogFetcher, 0, len(cfg.Chain.RPCEndpoints))
	for _, endpoint := range cfg.Chain.RPCEndpoints {
		fetchers = append(fetchers, chain.NewRPCClient(
			endpoint, cfg.Chain.TokenAddress, cfg.Chain.RequestTimeout, appLogger))
	}
	providerPool, err := chain.NewProviderPool(fetchers, appLogger)
	if err != nil {
		appLogger.Error("Failed to build RPC provider pool", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	scanner := chain.NewScanner(providerPool, appLogger, tp, chain.ScannerConfig{
		MaxChunkSpan: cfg.Chain.MaxChunkSpan,
		MinChunkSpan: cfg.Chain.MinChunkSpan,
		ChunkPause:   coreport.Duration(cfg.Chain.ChunkPauseMs) * coreport.Millisecond,
		RetryPause:   coreport.Duration(cfg.Chain.RetryPauseMs) * coreport.Millisecond,
	})

	// External payout provider
	payoutClient := payout.NewBinanceClient(payout.Config{
		BaseURL:    cfg.Payout.BaseURL,
		APIKey:     cfg.Payout.APIKey,
		APISecret:  cfg.Payout.APISecret,
		Asset:      cfg.Payout.Asset,
		Network:    cfg.Payout.Network,
		Timeout:    coreport.Duration(cfg.Payout.Timeout),
		RecvWindow: cfg.Payout.RecvWindow,
	}, appLogger, tp)

	// Initialize use cases
	depositService := depositUseCase.NewService(uow, scanner, distributor, appLogger, tp,
		depositUseCase.Config{
			MinDepositCents:        cfg.Deposit.MinDepositCents,
			ActivityThresholdCents: cfg.Deposit.ActivityThresholdCents,
			DailyUnitCents:         cfg.Deposit.DailyUnitCents,
			AdminWallet:            cfg.Deposit.AdminWallet,
			TokenDecimals:          int32(cfg.Chain.TokenDecimals),
			LookbackBlocks:         cfg.Chain.LookbackBlocks,
		})
	withdrawalService := withdrawalUseCase.NewService(uow, userRepo, withdrawalRepo,
		payoutClient, appLogger, tp,
		withdrawalUseCase.Config{MinWithdrawalCents: cfg.Withdrawal.MinWithdrawalCents})
	registerService := userUseCase.NewRegisterService(uow, userRepo, rankCalculator, appLogger, tp)
	profileService := userUseCase.NewProfileService(userRepo, eventRepo, appLogger, cfg.Referral.BaseURL)
	dailyProfitService := userUseCase.NewDailyProfitService(uow, appLogger, tp,
		userUseCase.DailyProfitConfig{
			ActivityThresholdCents: cfg.Deposit.ActivityThresholdCents,
			DailyUnitCents:         cfg.Deposit.DailyUnitCents,
			WindowHours:            cfg.Deposit.DailyProfitWindowHours,
		})
	statsService := adminUseCase.NewStatsService(userRepo, eventRepo, withdrawalRepo)

	// Initialize API handlers
	authHandler := handler.NewAuthHandler(
		registerService, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, tp, appLogger)
	userHandler := handler.NewUserHandler(profileService, dailyProfitService, appLogger)
	depositHandler := handler.NewDepositHandler(depositService, appLogger)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService, appLogger)
	adminHandler := handler.NewAdminHandler(statsService, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(router, cfg.Auth.JWTSecret, appLogger,
		authHandler, userHandler, depositHandler, withdrawalHandler, adminHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or FAG_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or FAG_DB_USERNAME environment variable)")
	}
	if cfg.Database.Password == "" {
		missingConfigs = append(missingConfigs, "database.password (or FAG_DB_PASSWORD environment variable)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or FAG_DB_NAME environment variable)")
	}

	// Validate chain configuration
	if len(cfg.Chain.RPCEndpoints) == 0 {
		missingConfigs = append(missingConfigs, "chain.rpcEndpoints (or FAG_CHAIN_RPC_ENDPOINTS environment variable)")
	}
	if cfg.Chain.TokenAddress == "" {
		missingConfigs = append(missingConfigs, "chain.tokenAddress (or FAG_CHAIN_TOKEN_ADDRESS environment variable)")
	}
	if cfg.Chain.LookbackBlocks == 0 {
		missingConfigs = append(missingConfigs, "chain.lookbackBlocks")
	}

	// Validate deposit configuration
	if cfg.Deposit.AdminWallet == "" {
		missingConfigs = append(missingConfigs, "deposit.adminWallet (or FAG_DEPOSIT_ADMIN_WALLET environment variable)")
	}
	if cfg.Deposit.MinDepositCents <= 0 {
		missingConfigs = append(missingConfigs, "deposit.minDepositCents")
	}

	// Validate referral configuration
	if cfg.Referral.BaseURL == "" {
		missingConfigs = append(missingConfigs, "referral.baseUrl (or FAG_REFERRAL_BASE_URL environment variable)")
	}

	// Validate withdrawal configuration
	if cfg.Withdrawal.MinWithdrawalCents <= 0 {
		missingConfigs = append(missingConfigs, "withdrawal.minWithdrawalCents")
	}

	// Validate payout configuration
	if cfg.Payout.APIKey == "" {
		missingConfigs = append(missingConfigs, "payout.apiKey (or FAG_PAYOUT_API_KEY environment variable)")
	}
	if cfg.Payout.APISecret == "" {
		missingConfigs = append(missingConfigs, "payout.apiSecret (or FAG_PAYOUT_API_SECRET environment variable)")
	}

	// Validate auth configuration
	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or FAG_AUTH_JWT_SECRET environment variable)")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	return nil
}
