package repository

import (
	"context"
	"errors"

	apperrors "github.com/Taichi-iskw/yt-vault/internal/errors"
	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

const videoColumns = "id, video_id, title, thumbnail_path, video_path, created_at"

// videoRepository implements VideoRepository using PostgreSQL
type videoRepository struct {
	pool Pool
}

// NewVideoRepository creates a new instance of VideoRepository
func NewVideoRepository(pool Pool) VideoRepository {
	return &videoRepository{
		pool: pool,
	}
}

// GetByVideoID retrieves a video by its source-assigned identifier
func (r *videoRepository) GetByVideoID(ctx context.Context, videoID string) (*model.Video, error) {
	sql := "SELECT " + videoColumns + " FROM videos WHERE video_id = $1"
	row := r.pool.QueryRow(ctx, sql, videoID)

	var video model.Video
	err := row.Scan(&video.ID, &video.VideoID, &video.Title, &video.ThumbnailPath, &video.VideoPath, &video.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "video not found")
		}
		return nil, handlePostgreSQLError(err, "failed to get video")
	}

	return &video, nil
}

// Upsert inserts or updates a video keyed by video_id in a single statement.
// created_at is only set on insert; xmax is 0 for freshly inserted tuples.
func (r *videoRepository) Upsert(ctx context.Context, video *model.Video) (bool, error) {
	if video.VideoID == "" {
		return false, apperrors.New(apperrors.CodeInvalidArg, "video_id is required")
	}

	sql := `INSERT INTO videos (video_id, title, thumbnail_path, video_path)
VALUES ($1, $2, $3, $4)
ON CONFLICT (video_id) DO UPDATE SET
	title = EXCLUDED.title,
	thumbnail_path = EXCLUDED.thumbnail_path,
	video_path = EXCLUDED.video_path
RETURNING id, created_at, (xmax = 0) AS inserted`

	row := r.pool.QueryRow(ctx, sql, video.VideoID, video.Title, video.ThumbnailPath, video.VideoPath)

	var created bool
	if err := row.Scan(&video.ID, &video.CreatedAt, &created); err != nil {
		return false, handlePostgreSQLError(err, "failed to upsert video")
	}

	return created, nil
}

// List retrieves all videos ordered by id
func (r *videoRepository) List(ctx context.Context) ([]*model.Video, error) {
	sql := "SELECT " + videoColumns + " FROM videos ORDER BY id"
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list videos")
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		var video model.Video
		err := rows.Scan(&video.ID, &video.VideoID, &video.Title, &video.ThumbnailPath, &video.VideoPath, &video.CreatedAt)
		if err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan video row")
		}
		videos = append(videos, &video)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to iterate video rows")
	}

	return videos, nil
}
