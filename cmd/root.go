package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-vault/internal/config"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yt-vault",
	Short: "Download channel videos with yt-dlp and serve them over HTTP",
	Long: `yt-vault lists the videos of a channel, playlist or single video URL with yt-dlp,
downloads them in the background, keeps their metadata in PostgreSQL and serves
the files over HTTP with live progress on a websocket.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return config.SetConfigPath(configPath)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.yt-vault/config.yaml)")
}
