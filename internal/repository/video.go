package repository

import (
	"context"

	"github.com/Taichi-iskw/yt-vault/internal/model"
)

// VideoRepository defines operations for Video persistence
type VideoRepository interface {
	// GetByVideoID retrieves a video by its source-assigned identifier
	GetByVideoID(ctx context.Context, videoID string) (*model.Video, error)

	// Upsert inserts the video, or updates title and paths of the existing
	// row with the same video_id. It reports whether a new row was created.
	Upsert(ctx context.Context, video *model.Video) (bool, error)

	// List retrieves all videos ordered by insertion
	List(ctx context.Context) ([]*model.Video, error)
}
