package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Taichi-iskw/yt-vault/internal/errors"
	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/Taichi-iskw/yt-vault/internal/service/ytdlp"
)

const placeholderPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Video Parser</title></head>
<body><h1>Video Parser</h1><p>Put an index.html into the static directory to replace this page.</p></body>
</html>
`

func (s *Server) indexHandler(c *gin.Context) {
	index := filepath.Join(s.opts.StaticDir, "index.html")
	if fileExists(index) {
		c.File(index)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(placeholderPage))
}

func (s *Server) parseChannelHandler(c *gin.Context) {
	var req model.ParseRequest
	// an empty body means "use the configured defaults"
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		respondDetail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.orch.HandleParseRequest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, res)
}

func (s *Server) listVideosHandler(c *gin.Context) {
	videos, err := s.videoRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (s *Server) videoFileHandler(c *gin.Context) {
	s.serveStoredFile(c, func(v *model.Video) string { return v.VideoPath }, ytdlp.ScanVideoFile, "Video file not found")
}

func (s *Server) thumbnailFileHandler(c *gin.Context) {
	s.serveStoredFile(c, func(v *model.Video) string { return v.ThumbnailPath }, ytdlp.FindThumbnailFile, "Thumbnail not found")
}

// serveStoredFile serves the path stored on the record, falling back to a
// scan of the download directory when that path has gone stale.
func (s *Server) serveStoredFile(c *gin.Context, stored func(*model.Video) string, fallback func(dir, id string) (string, bool), missing string) {
	videoID := c.Param("video_id")

	video, err := s.videoRepo.GetByVideoID(c.Request.Context(), videoID)
	if err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			respondDetail(c, http.StatusNotFound, "Video not found")
			return
		}
		respondError(c, err)
		return
	}

	path := stored(video)
	if !fileExists(path) {
		found, ok := fallback(s.opts.DownloadDir, video.VideoID)
		if !ok {
			respondDetail(c, http.StatusNotFound, missing)
			return
		}
		s.log.WithField("video_id", video.VideoID).Debugf("stored path %q missing, serving %q", path, found)
		path = found
	}
	c.File(path)
}

func (s *Server) listJobsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.orch.Jobs())
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
