package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-vault/internal/config"
	"github.com/Taichi-iskw/yt-vault/internal/repository"
)

// videoCmd represents the videos command
var videoCmd = &cobra.Command{
	Use:     "videos",
	Aliases: []string{"video"},
	Short:   "Stored video operations",
	Long:    `Operations on the videos recorded in the database.`,
}

// videoListCmd lists stored videos
var videoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloaded videos",
	Long:  `List every video recorded in the database, oldest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		videos, err := repository.NewVideoRepository(dbPool).List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			result, err := json.MarshalIndent(videos, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format result: %w", err)
			}
			fmt.Fprintln(out, string(result))
			return nil
		}

		if len(videos) == 0 {
			fmt.Fprintln(out, "No videos found.")
			return nil
		}

		renderVideos(out, videos)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(videoCmd)
	videoCmd.AddCommand(videoListCmd)
	videoListCmd.Flags().Bool("json", false, "print JSON instead of a table")
}
