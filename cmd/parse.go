package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/Taichi-iskw/yt-vault/internal/notifier"
)

// parseCmd downloads a channel in the foreground
var parseCmd = &cobra.Command{
	Use:   "parse [URL]",
	Short: "Download a channel, playlist or video and wait for it",
	Long: `Resolve the videos of URL (or CHANNEL_URL when omitted), download them and
store their metadata, printing progress as it happens. Ctrl-C cancels the
remaining downloads.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := os.MkdirAll(a.cfg.DownloadDir, 0755); err != nil {
			return fmt.Errorf("failed to create download directory: %w", err)
		}

		out := cmd.OutOrStdout()
		a.hub.Connect(notifier.NewWriterSubscriber(out))

		req := model.ParseRequest{}
		if len(args) > 0 {
			req.ChannelURL = args[0]
		}
		req.MaxVideos, _ = cmd.Flags().GetInt("max")

		res, err := a.orch.HandleParseRequest(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to parse channel: %w", err)
		}
		fmt.Fprintln(out, res.Message)

		done := make(chan struct{})
		go func() {
			a.orch.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			// an already expired context makes Shutdown cancel immediately
			expired, cancel := context.WithCancel(context.Background())
			cancel()
			_ = a.orch.Shutdown(expired)
		}

		renderJobs(out, a.orch.Jobs())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Int("max", 0, "maximum number of videos (default MAX_VIDEOS)")
}
