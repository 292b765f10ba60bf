package ytdlp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-vault/internal/errors"
	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/Taichi-iskw/yt-vault/internal/service/common"
)

// ListVideos lists videos of a channel/playlist/video URL using yt-dlp in flat mode
func (s *service) ListVideos(ctx context.Context, sourceURL string, maxCount int) ([]model.ListedVideo, error) {
	if sourceURL == "" {
		return nil, errors.New(errors.CodeInvalidArg, "source URL is required")
	}

	args := []string{"--dump-json", "--flat-playlist"}
	// 0 means no limit
	if maxCount > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(maxCount))
	}
	args = append(args, sourceURL)

	output, err := s.cmdRunner.Run(ctx, s.opts.BinaryPath, args...)
	if err != nil {
		msg := "failed to list videos with yt-dlp"
		if stderr := common.Stderr(err); stderr != "" {
			msg += ": " + lastLine(stderr)
		}
		return nil, errors.Wrap(err, errors.CodeExternal, msg)
	}

	// yt-dlp outputs one JSON object per line
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	videos := make([]model.ListedVideo, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var info ytDlpVideoInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to parse yt-dlp output")
		}
		if info.ID == "" {
			continue
		}

		videos = append(videos, model.ListedVideo{ID: info.ID, Title: info.Title})
		if maxCount > 0 && len(videos) == maxCount {
			break
		}
	}

	s.log.WithFields(logrus.Fields{
		"url":   sourceURL,
		"count": len(videos),
	}).Debug("listed videos")

	return videos, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
