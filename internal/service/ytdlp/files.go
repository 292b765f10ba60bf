package ytdlp

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// VideoExtensions are the containers probed for, in order
	VideoExtensions = []string{"webm", "mp4", "mkv"}
	// ThumbnailExtensions are the image formats probed for, in order
	ThumbnailExtensions = []string{"jpg", "webp", "png"}

	progressMarkers = []string{"[download]", "[info]", "ERROR", "WARNING"}
)

// IsProgressLine reports whether a yt-dlp output line is worth forwarding
func IsProgressLine(line string) bool {
	for _, marker := range progressMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// IsDownloadLine reports whether line is a [download] progress update
func IsDownloadLine(line string) bool {
	return strings.Contains(line, "[download]")
}

// FindVideoFile probes dir for {id}.{webm|mp4|mkv}
func FindVideoFile(dir, videoID string) (string, bool) {
	return probe(dir, videoID, VideoExtensions)
}

// FindThumbnailFile probes dir for {id}.{jpg|webp|png}
func FindThumbnailFile(dir, videoID string) (string, bool) {
	return probe(dir, videoID, ThumbnailExtensions)
}

// ScanVideoFile returns any {id}.* file in dir that is not a thumbnail image.
// It is a looser fallback than FindVideoFile for files remuxed to other containers.
func ScanVideoFile(dir, videoID string) (string, bool) {
	if !validID(videoID) {
		return "", false
	}
	if path, ok := FindVideoFile(dir, videoID); ok {
		return path, true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	prefix := videoID + "."
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if slices.Contains(ThumbnailExtensions, ext) || ext == "part" {
			continue
		}
		return filepath.Join(dir, name), true
	}
	return "", false
}

func probe(dir, videoID string, extensions []string) (string, bool) {
	if !validID(videoID) {
		return "", false
	}
	for _, ext := range extensions {
		path := filepath.Join(dir, videoID+"."+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// validID rejects IDs that could escape the download directory
func validID(videoID string) bool {
	return videoID != "" && videoID != "." && videoID != ".." && !strings.ContainsAny(videoID, `/\`)
}
