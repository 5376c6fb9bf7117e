// main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"luxe-backend/internal/api"
	"luxe-backend/internal/cache"
	"luxe-backend/internal/config"
	"luxe-backend/internal/logger"
	"luxe-backend/internal/payment"
	"luxe-backend/internal/store"
	"luxe-backend/internal/token"
)

var Version = "dev"

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:     "luxe",
		Short:   "Online cosmetics shop backend",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file layered under the environment")

	rootCmd.AddCommand(serveCmd(&envFile))
	rootCmd.AddCommand(promoteCmd(&envFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *envFile)
		},
	}
}

func promoteCmd(envFile *string) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant the admin role to an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(*envFile)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := store.ConnectMongoDB(ctx, cfg.DatabaseURI(), cfg.DBName)
			if err != nil {
				return err
			}
			s := store.New(db)
			defer s.Close(context.Background())

			res, err := s.Users.PromoteByEmail(ctx, email)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("no user with email %s", email)
			}
			log.Info().Str("email", email).Msg("user promoted to admin")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func load(envFile string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err := cfg.Validate(); err != nil {
		return nil, log, err
	}
	return cfg, log, nil
}

func serve(ctx context.Context, envFile string) error {
	cfg, log, err := load(envFile)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := store.ConnectMongoDB(connectCtx, cfg.DatabaseURI(), cfg.DBName)
	if err != nil {
		return err
	}
	s := store.New(db)
	defer s.Close(context.Background())
	log.Info().Str("database", cfg.DBName).Msg("connected to MongoDB")

	if err := s.CreateIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("index creation failed")
	}
	if n, err := s.Payments.ResumeCartCleanup(ctx); err != nil {
		log.Error().Err(err).Msg("cart cleanup of interrupted payments failed")
	} else if n > 0 {
		log.Info().Int("payments", n).Msg("finished cart cleanup of interrupted payments")
	}

	tokens, err := token.NewMaker(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	var productCache cache.ProductCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, product cache disabled")
		} else {
			productCache = cache.NewRedisCache(rdb, cfg.ProductCacheTTL)
			log.Info().Str("addr", cfg.RedisAddr).Msg("product cache enabled")
		}
	}

	if cfg.StripeSecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents will fail")
	}

	server := api.NewServer(api.Deps{
		Users:          s.Users,
		Products:       s.Products,
		Reviews:        s.Reviews,
		Carts:          s.Carts,
		Payments:       s.Payments,
		Stats:          s.Stats,
		Gateway:        payment.NewStripeGateway(cfg.StripeSecretKey, nil),
		Tokens:         tokens,
		Cache:          productCache,
		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("online cosmetics shop running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
