package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourname/gdrive_lite/internal/app/gdrivehttp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe поднимает HTTP-сервер и обеспечивает корректное завершение по сигналу.
func runServe(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := slog.Default()

	handler, srv, err := gdrivehttp.NewServer(cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	// фоновый GC брошенных временных файлов
	stopGC := srv.Storage.StartGC(cfg.GC.TTL, cfg.GC.Every)
	defer stopGC()

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		// websocket-соединения Shutdown не закрывает
		_ = srv.Close()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("gdrive listening", "addr", cfg.ListenAddr, "storage_dir", cfg.StorageDir,
		"notifier", cfg.Notifier.Driver, "tls", cfg.TLS.Enabled(), "mirror", cfg.Mirror.Enabled())

	if cfg.TLS.Enabled() {
		err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
