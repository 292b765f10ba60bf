package ytdlp

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/Taichi-iskw/yt-vault/internal/service/common"
)

// Default option values
const (
	DefaultBinaryPath  = "yt-dlp"
	DefaultDownloadDir = "downloads"
	DefaultMaxHeight   = 1440
	DefaultRemuxVideo  = "webm"
)

// Service is interface for yt-dlp listing and downloading
type Service interface {
	// ListVideos lists up to maxCount entries of a channel, playlist or single video URL.
	// maxCount <= 0 lists everything.
	ListVideos(ctx context.Context, sourceURL string, maxCount int) ([]model.ListedVideo, error)
	// DownloadVideo downloads one video into the download directory. Every output
	// line of the download process is handed to onLine, which may be nil.
	DownloadVideo(ctx context.Context, videoURL string, onLine func(string)) (*model.DownloadResult, error)
	// DownloadDir returns the directory videos and thumbnails are written to
	DownloadDir() string
}

// Options configures how yt-dlp is invoked
type Options struct {
	BinaryPath  string
	DownloadDir string
	MaxHeight   int
	RemuxVideo  string
}

func (o Options) withDefaults() Options {
	if o.BinaryPath == "" {
		o.BinaryPath = DefaultBinaryPath
	}
	if o.DownloadDir == "" {
		o.DownloadDir = DefaultDownloadDir
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.RemuxVideo == "" {
		o.RemuxVideo = DefaultRemuxVideo
	}
	return o
}

// service implements Service
type service struct {
	cmdRunner common.CmdRunner
	opts      Options
	log       logrus.FieldLogger
}

// NewService creates a new Service backed by the real yt-dlp binary
func NewService(opts Options, log logrus.FieldLogger) Service {
	return NewServiceWithCmdRunner(common.NewCmdRunner(), opts, log)
}

// NewServiceWithCmdRunner creates a new Service with custom CmdRunner (for testing)
func NewServiceWithCmdRunner(cmdRunner common.CmdRunner, opts Options, log logrus.FieldLogger) Service {
	return &service{
		cmdRunner: cmdRunner,
		opts:      opts.withDefaults(),
		log:       log,
	}
}

func (s *service) DownloadDir() string {
	return s.opts.DownloadDir
}

// ytDlpVideoInfo represents the fields we read from yt-dlp JSON output
type ytDlpVideoInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WatchURL builds the canonical watch page URL for a video ID
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
