package cmd

import (
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Taichi-iskw/yt-vault/internal/config"
	"github.com/Taichi-iskw/yt-vault/internal/model"
)

func renderVideos(w io.Writer, videos []*model.Video) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"Id", "Video Id", "Title", "Video", "Thumbnail", "Created"})

	for _, v := range videos {
		tbl.AppendRow(table.Row{
			v.ID,
			v.VideoID,
			fmt.Sprintf("%.40s", v.Title),
			v.VideoPath,
			v.ThumbnailPath,
			v.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	tbl.SetStyle(table.StyleLight)
	tbl.Render()
}

func renderJobs(w io.Writer, jobs []model.DownloadJob) {
	if len(jobs) == 0 {
		return
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"#", "Video Id", "Status", "Error"})

	for _, job := range jobs {
		tbl.AppendRow(table.Row{
			fmt.Sprintf("%d/%d", job.Index, job.Total),
			job.VideoID,
			job.Status,
			fmt.Sprintf("%.60s", job.LastError),
		})
	}

	tbl.SetStyle(table.StyleLight)
	tbl.Render()
}

func renderConfig(w io.Writer, cfg *config.Config) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"Key", "Value"})
	tbl.AppendRows([]table.Row{
		{"DATABASE_URL", redactURL(cfg.DatabaseURL)},
		{"CHANNEL_URL", cfg.ChannelURL},
		{"MAX_VIDEOS", cfg.MaxVideos},
		{"DOWNLOAD_DIR", cfg.DownloadDir},
		{"STATIC_DIR", cfg.StaticDir},
		{"HOST", cfg.Host},
		{"PORT", strconv.Itoa(cfg.Port)},
		{"MAX_CONCURRENT_DOWNLOADS", maxConcurrentLabel(cfg.MaxConcurrentDownloads)},
		{"YTDLP_PATH", cfg.YtDlpPath},
		{"MAX_HEIGHT", cfg.MaxHeight},
		{"REMUX_VIDEO", cfg.RemuxVideo},
		{"LOG_LEVEL", cfg.LogLevel},
	})
	tbl.SetStyle(table.StyleLight)
	tbl.Render()
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

func maxConcurrentLabel(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return strconv.Itoa(n)
}
