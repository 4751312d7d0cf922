package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	bboyzero "github.com/bboyyzero/bboyzero-net-site"
	"github.com/bboyyzero/bboyzero-net-site/config"
	bboyhttp "github.com/bboyyzero/bboyzero-net-site/http"
	"github.com/bboyyzero/bboyzero-net-site/static"
	"github.com/bboyyzero/bboyzero-net-site/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the site gateway: static assets plus the /api endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 3000, "HTTP server port")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	var configFiles []string
	if configFile != "" {
		configFiles = append(configFiles, configFile)
	}

	cfg, err := config.Load(configFiles, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !cfg.Supabase.Configured() {
		slog.Warn("supabase url or service key unset; /api requests will fail until configured")
	}

	store := supabase.NewClient(supabase.Config{
		URL:        cfg.Supabase.URL,
		ServiceKey: cfg.Supabase.ServiceKey,
		Bucket:     cfg.Supabase.Bucket,
		Timeout:    time.Duration(cfg.Supabase.TimeoutSeconds) * time.Second,
	})

	if err := os.MkdirAll(cfg.Static.Root, 0o750); err != nil {
		return fmt.Errorf("create static root: %w", err)
	}

	root, err := os.OpenRoot(cfg.Static.Root)
	if err != nil {
		return fmt.Errorf("open static root: %w", err)
	}
	defer func() { _ = root.Close() }()

	service := bboyzero.NewService(store)

	handlerConfig := bboyhttp.HandlerConfig{
		AdminToken:      cfg.Admin.Token,
		StoreConfigured: cfg.Supabase.Configured(),
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		CORS:            cfg.CORS,
	}
	handler := bboyhttp.NewHandler(&handlerConfig, service, static.NewResolver(root))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
	}()

	slog.Info("starting server", "addr", addr, "static_root", cfg.Static.Root, "store_configured", cfg.Supabase.Configured())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
