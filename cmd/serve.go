package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-vault/internal/server"
)

// jobShutdownTimeout is how long serve waits for running downloads on exit
const jobShutdownTimeout = 30 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. Parse requests schedule background downloads,
and progress is pushed to websocket clients on /ws.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("host") {
			a.cfg.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			a.cfg.Port, _ = cmd.Flags().GetInt("port")
		}

		for _, dir := range []string{a.cfg.DownloadDir, a.cfg.StaticDir} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}

		if a.log.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := server.New(a.orch, a.videoRepo, a.hub, server.Options{
			DownloadDir: a.cfg.DownloadDir,
			StaticDir:   a.cfg.StaticDir,
		}, a.log)

		a.log.WithFields(logrus.Fields{
			"download_dir":             a.cfg.DownloadDir,
			"max_concurrent_downloads": a.cfg.MaxConcurrentDownloads,
		}).Infof("starting yt-vault on %s", a.cfg.Addr())

		runErr := srv.Run(ctx, a.cfg.Addr())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), jobShutdownTimeout)
		defer cancel()
		if err := a.orch.Shutdown(shutdownCtx); err != nil {
			a.log.WithError(err).Warn("unfinished downloads were cancelled")
		}

		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "bind host (overrides HOST)")
	serveCmd.Flags().Int("port", 0, "bind port (overrides PORT)")
}
