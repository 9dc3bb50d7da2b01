package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "restaurantapi/internal/config"
	"restaurantapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":8080", "Address to listen on")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		return bindFlag(cmd, "app_addr", "addr")
	}
	return cmd
}

// loadEnv reads the configuration and initializes the process logger.
func loadEnv() (intconfig.Env, error) {
	env, err := intconfig.LoadEnv()
	if err != nil {
		return env, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := utils.InitLogger(env.LogLevel, env.GinMode == gin.DebugMode); err != nil {
		return env, fmt.Errorf("init logger: %w", err)
	}
	return env, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = utils.Logger().Sync() }()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, closeStores, err := buildRouter(ctx, env)
	if err != nil {
		return err
	}
	defer closeStores()

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Logger().Info("server listening", zap.String("addr", env.AppAddr), zap.String("config", viper.ConfigFileUsed()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	utils.Logger().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	utils.Logger().Info("server stopped")
	return nil
}
