package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"token-dashboard.backend/internal/config"
	"token-dashboard.backend/internal/infrastructure/blockchain"
	"token-dashboard.backend/internal/infrastructure/repositories"
	"token-dashboard.backend/internal/interfaces/http/handlers"
	"token-dashboard.backend/internal/interfaces/http/middleware"
	"token-dashboard.backend/internal/usecases"
	"token-dashboard.backend/pkg/jwt"
	"token-dashboard.backend/pkg/logger"
	"token-dashboard.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	migrateDB = repositories.AutoMigrate
	dialChain = blockchain.NewEVMClient
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	ctx := context.Background()

	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis only backs logout revocation; without it sessions live until expiry.
	var (
		revoker     usecases.SessionRevoker
		revocations middleware.RevocationChecker
	)
	if cfg.Redis.URL != "" {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redis.Close()
		store := redis.NewRevocationStore(redis.GetClient())
		revoker, revocations = store, store
		logger.Info(ctx, "Redis initialized")
	} else {
		logger.Warn(ctx, "REDIS_URL not set, logout will not revoke session tokens")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
		if cfg.Database.AutoMigrate {
			if err := migrateDB(ctx, db); err != nil {
				return err
			}
		}
	}

	evm, err := dialChain(ctx, cfg.Blockchain.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to chain: %w", err)
	}
	defer evm.Close()

	token, err := blockchain.NewERC20Client(evm, cfg.Blockchain.TokenAddress)
	if err != nil {
		return fmt.Errorf("invalid token contract: %w", err)
	}
	logger.Info(ctx, "Chain client ready",
		zap.String("chain_id", evm.ChainID().String()),
		zap.String("token", token.TokenAddress().Hex()),
	)

	var treasury *blockchain.Signer
	if cfg.Blockchain.AdminPrivateKey != "" {
		treasury, err = blockchain.NewSigner(cfg.Blockchain.AdminPrivateKey)
		if err != nil {
			return fmt.Errorf("invalid admin private key: %w", err)
		}
		logger.Info(ctx, "Treasury wallet loaded", zap.String("address", treasury.Address.Hex()))
	} else {
		logger.Warn(ctx, "ADMIN_PRIVATE_KEY not set, treasury endpoints are disabled")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	userRepo := repositories.NewUserRepository(db)
	walletRepo := repositories.NewCustodyWalletRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, revoker)
	walletUsecase := usecases.NewCustodyWalletUsecase(walletRepo, userRepo, uow, token, usecases.WalletPolicy{
		TokenDecimals:      cfg.Blockchain.TokenDecimals,
		BalanceConcurrency: cfg.Blockchain.BalanceConcurrency,
		EnforceOwnership:   cfg.Security.EnforceWalletOwnership,
	})
	transferUsecase := usecases.NewTransferUsecase(token, txRepo, walletRepo, userRepo, treasury, usecases.TransferConfig{
		TokenDecimals:       cfg.Blockchain.TokenDecimals,
		ConfirmationTimeout: cfg.Blockchain.ConfirmationTimeout,
		ExplorerURL:         cfg.Blockchain.ExplorerURL,
		EnforceOwnership:    cfg.Security.EnforceWalletOwnership,
	})
	tokenUsecase := usecases.NewTokenUsecase(token, treasury, cfg.Blockchain.TokenDecimals)
	ledgerUsecase := usecases.NewLedgerUsecase(txRepo)

	verifier := middleware.NewSessionVerifier(jwtService, cfg.JWT.CookieName, revocations)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	if err := applyCORSMiddleware(r, cfg.Server.AllowedOrigins); err != nil {
		return err
	}
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIRoutes(r, routeDeps{
		authHandler: handlers.NewAuthHandler(authUsecase, handlers.CookieSettings{
			Name:   cfg.JWT.CookieName,
			Secure: cfg.JWT.CookieSecure,
		}),
		walletHandler:      handlers.NewWalletHandler(walletUsecase, transferUsecase),
		tokenHandler:       handlers.NewTokenHandler(tokenUsecase, transferUsecase),
		transactionHandler: handlers.NewTransactionHandler(ledgerUsecase),
		sessionMiddleware:  middleware.SessionMiddleware(verifier),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	logger.Info(ctx, "Token dashboard backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Bool("wallet_ownership_enforced", cfg.Security.EnforceWalletOwnership),
	)
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
