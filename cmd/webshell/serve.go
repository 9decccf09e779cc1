package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/CageChen/webshell/internal/config"
	"github.com/CageChen/webshell/internal/handler"
	"github.com/CageChen/webshell/internal/metrics"
	"github.com/CageChen/webshell/internal/session"
	"github.com/CageChen/webshell/internal/shell"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/CageChen/webshell/internal/watcher"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//go:embed web/*
var webFS embed.FS

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the terminal page and its API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	config.Flags(serveCmd.Flags())
}

func serve(ctx context.Context, cfg *config.Config) error {
	src, root, err := loadTree(cfg)
	if err != nil {
		return err
	}
	holder := vfs.NewHolder(root)
	metrics.SetTreeNodes(vfs.CountNodes(root))

	log.WithFields(logrus.Fields{
		"config": cfg.GetConfigFilePath(),
		"source": src.String(),
		"nodes":  vfs.CountNodes(root),
	}).Info("tree loaded")

	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	sessions := session.NewManager(holder, kv, shell.WithObserver(metrics.Observer{}))

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return errors.Wrap(err, "loading web assets")
	}

	gin.SetMode(gin.ReleaseMode)
	r, wsHandler := handler.NewRouter(handler.Options{
		Tree:     holder,
		Sessions: sessions,
		Log:      log,
		Web:      webContent,
		Metrics:  cfg.Metrics,
	})

	// Setup tree watcher if enabled
	if cfg.Watch && len(src.WatchPaths()) > 0 {
		w, err := watcher.New(src, holder, log)
		if err != nil {
			log.WithError(err).Warn("failed to create tree watcher")
		} else {
			w.OnReload(wsHandler.OnReload)
			w.OnReload(func(e watcher.Event) {
				metrics.RecordReload(e.Err)
				if e.Err == nil {
					metrics.SetTreeNodes(e.Nodes)
				}
			})
			if err := w.Start(); err != nil {
				log.WithError(err).Warn("failed to start tree watcher")
			}
			defer func() { _ = w.Stop() }()
			log.Info("tree watcher enabled")
		}
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("server starting at: %s", url)
		errCh <- srv.ListenAndServe()
	}()

	if cfg.Open {
		go openBrowser(url)
	}

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default: // linux, etc.
		cmd = "xdg-open"
		args = []string{url}
	}

	_ = exec.Command(cmd, args...).Start()
}
