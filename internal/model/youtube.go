package model

import "time"

// Video is the persisted record of a downloaded video
type Video struct {
	ID            int64     `json:"id" db:"id"`
	VideoID       string    `json:"video_id" db:"video_id"`
	Title         string    `json:"title" db:"title"`
	ThumbnailPath string    `json:"thumbnail_path" db:"thumbnail_path"`
	VideoPath     string    `json:"video_path" db:"video_path"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
}

// ListedVideo is one entry returned by a flat playlist/channel listing
type ListedVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DisplayTitle returns the title, or the ID when yt-dlp gave no title
func (v ListedVideo) DisplayTitle() string {
	if v.Title != "" {
		return v.Title
	}
	return v.ID
}

// DownloadResult describes the files produced by a single download
type DownloadResult struct {
	VideoID       string
	Title         string
	VideoPath     string
	ThumbnailPath string
}

// ToVideo converts the result into a record ready for upsert
func (r *DownloadResult) ToVideo() *Video {
	return &Video{
		VideoID:       r.VideoID,
		Title:         r.Title,
		VideoPath:     r.VideoPath,
		ThumbnailPath: r.ThumbnailPath,
	}
}
