package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Taichi-iskw/yt-vault/internal/errors"
	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/Taichi-iskw/yt-vault/internal/service/common"
)

// DownloadError is returned when the yt-dlp download process exits non-zero
type DownloadError struct {
	URL      string
	ExitCode int
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("yt-dlp exited with code %d", e.ExitCode)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// DownloadVideo fetches metadata, then downloads the video and its thumbnail
func (s *service) DownloadVideo(ctx context.Context, videoURL string, onLine func(string)) (*model.DownloadResult, error) {
	if videoURL == "" {
		return nil, errors.New(errors.CodeInvalidArg, "video URL is required")
	}

	if err := os.MkdirAll(s.opts.DownloadDir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create download directory")
	}

	info, err := s.fetchVideoInfo(ctx, videoURL)
	if err != nil {
		// Degraded mode: the URL is all we have
		id := VideoIDFromURL(videoURL)
		s.log.WithError(err).WithField("url", videoURL).Warnf("metadata unavailable, using %q as id and title", id)
		info = &ytDlpVideoInfo{ID: id, Title: id}
	}

	proc, err := s.cmdRunner.Start(ctx, s.opts.BinaryPath, s.downloadArgs(videoURL)...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to start yt-dlp")
	}

	for line := range proc.Lines() {
		if onLine != nil {
			onLine(line)
		}
	}

	if err := proc.Wait(); err != nil {
		dlErr := &DownloadError{URL: videoURL, ExitCode: common.ExitCode(err), Err: err}
		return nil, errors.Wrap(dlErr, errors.CodeDownload, "download failed")
	}

	videoPath, ok := FindVideoFile(s.opts.DownloadDir, info.ID)
	if !ok {
		videoPath = filepath.Join(s.opts.DownloadDir, info.ID+"."+s.opts.RemuxVideo)
		s.log.WithField("path", videoPath).Warn("downloaded video not found, recording expected path")
	}
	thumbnailPath, ok := FindThumbnailFile(s.opts.DownloadDir, info.ID)
	if !ok {
		thumbnailPath = filepath.Join(s.opts.DownloadDir, info.ID+".jpg")
		s.log.WithField("path", thumbnailPath).Warn("thumbnail not found, recording expected path")
	}

	return &model.DownloadResult{
		VideoID:       info.ID,
		Title:         info.Title,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	}, nil
}

func (s *service) fetchVideoInfo(ctx context.Context, videoURL string) (*ytDlpVideoInfo, error) {
	output, err := s.cmdRunner.Run(ctx, s.opts.BinaryPath, "--dump-json", "--no-warnings", "--no-playlist", videoURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to fetch video metadata with yt-dlp")
	}

	var info ytDlpVideoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to parse yt-dlp output")
	}
	if info.ID == "" {
		return nil, errors.New(errors.CodeExternal, "yt-dlp returned no video id")
	}
	if info.Title == "" {
		info.Title = info.ID
	}
	return &info, nil
}

func (s *service) downloadArgs(videoURL string) []string {
	format := fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", s.opts.MaxHeight, s.opts.MaxHeight)
	return []string{
		"--format", format,
		"--output", filepath.Join(s.opts.DownloadDir, "%(id)s.%(ext)s"),
		"--write-thumbnail",
		"--remux-video", s.opts.RemuxVideo,
		"--newline",
		videoURL,
	}
}

// VideoIDFromURL derives a best-effort video ID from a URL: the value after
// "v=", otherwise the last path segment.
func VideoIDFromURL(videoURL string) string {
	id := videoURL
	if i := strings.LastIndex(videoURL, "v="); i >= 0 {
		id = videoURL[i+len("v="):]
	} else {
		id = strings.TrimRight(id, "/")
		if j := strings.LastIndexByte(id, '/'); j >= 0 {
			id = id[j+1:]
		}
	}
	if k := strings.IndexAny(id, "&#?"); k >= 0 {
		id = id[:k]
	}
	return id
}
