package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/config"
	"revuverse-backend-go/internal/db"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "revuverse",
		Short:   "Revuverse review management API",
		Version: Version,
		PersistentPreRun: func(*cobra.Command, []string) {
			// A missing .env is normal outside local development.
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(ensureIndexesCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(Version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appConfig, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return runServer(cmd.Context(), appConfig, logger)
		},
	}
}

func ensureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB indexes the repositories rely on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appConfig, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if appConfig.DatabaseDriver != config.DriverMongo {
				return fmt.Errorf("ensure-indexes only applies to DATABASE_DRIVER=%s", config.DriverMongo)
			}

			ctx, cancel := context.WithTimeout(contextOrBackground(cmd.Context()), 30*time.Second)
			defer cancel()
			client, err := db.ConnectMongo(ctx, appConfig.MongoURI, logger)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background()) //nolint:errcheck

			if err := db.EnsureMongoIndexes(ctx, client.Database(appConfig.MongoDatabase)); err != nil {
				return err
			}
			logger.Info("MongoDB indexes are in place", zap.String("database", appConfig.MongoDatabase))
			return nil
		},
	}
}

// bootstrap loads the configuration and builds the logger matching APP_ENV.
func bootstrap() (*config.Config, *zap.Logger, error) {
	appConfig, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var logger *zap.Logger
	if appConfig.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Printf("failed to initialize zap logger: %v", err)
		return nil, nil, err
	}
	logger.Info("Configuration loaded",
		zap.String("env", appConfig.AppEnv),
		zap.String("databaseDriver", appConfig.DatabaseDriver),
		zap.String("authProvider", appConfig.AuthProvider),
	)
	return appConfig, logger, nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
