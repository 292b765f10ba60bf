package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	apperrors "github.com/Taichi-iskw/yt-vault/internal/errors"
	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	selectByVideoIDSQL = regexp.QuoteMeta("SELECT id, video_id, title, thumbnail_path, video_path, created_at FROM videos WHERE video_id = $1")
	listSQL            = regexp.QuoteMeta("SELECT id, video_id, title, thumbnail_path, video_path, created_at FROM videos ORDER BY id")
	upsertSQL          = "INSERT INTO videos \\(video_id, title, thumbnail_path, video_path\\)"
	videoRowColumns    = []string{"id", "video_id", "title", "thumbnail_path", "video_path", "created_at"}
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, VideoRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewVideoRepository(mock)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestVideoRepository_GetByVideoID(t *testing.T) {
	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		videoID  string
		setup    func(mock pgxmock.PgxPoolIface)
		want     *model.Video
		wantCode string
	}{
		{
			name:    "video found",
			videoID: "abc123",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(videoRowColumns).
					AddRow(int64(1), "abc123", "First", "downloads/abc123.jpg", "downloads/abc123.webm", createdAt)
				mock.ExpectQuery(selectByVideoIDSQL).WithArgs("abc123").WillReturnRows(rows)
			},
			want: &model.Video{
				ID:            1,
				VideoID:       "abc123",
				Title:         "First",
				ThumbnailPath: "downloads/abc123.jpg",
				VideoPath:     "downloads/abc123.webm",
				CreatedAt:     createdAt,
			},
		},
		{
			name:    "video not found",
			videoID: "missing",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByVideoIDSQL).WithArgs("missing").WillReturnError(pgx.ErrNoRows)
			},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:    "database error",
			videoID: "abc123",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByVideoIDSQL).WithArgs("abc123").WillReturnError(assert.AnError)
			},
			wantCode: apperrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepo(t)
			tt.setup(mock)

			got, err := repo.GetByVideoID(testContext(t), tt.videoID)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "pgxmock expectations were not met")
		})
	}
}

func TestVideoRepository_Upsert(t *testing.T) {
	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		video       *model.Video
		setup       func(mock pgxmock.PgxPoolIface)
		wantCreated bool
		wantID      int64
		wantCode    string
	}{
		{
			name:  "insert new video",
			video: &model.Video{VideoID: "abc123", Title: "First", ThumbnailPath: "d/abc123.jpg", VideoPath: "d/abc123.webm"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(upsertSQL).
					WithArgs("abc123", "First", "d/abc123.jpg", "d/abc123.webm").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "inserted"}).AddRow(int64(1), createdAt, true))
			},
			wantCreated: true,
			wantID:      1,
		},
		{
			name:  "update existing video",
			video: &model.Video{VideoID: "abc123", Title: "Renamed", ThumbnailPath: "d/abc123.webp", VideoPath: "d/abc123.mkv"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(upsertSQL).
					WithArgs("abc123", "Renamed", "d/abc123.webp", "d/abc123.mkv").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "inserted"}).AddRow(int64(1), createdAt, false))
			},
			wantCreated: false,
			wantID:      1,
		},
		{
			name:     "empty video id",
			video:    &model.Video{Title: "No ID"},
			setup:    func(mock pgxmock.PgxPoolIface) {},
			wantCode: apperrors.CodeInvalidArg,
		},
		{
			name:  "not null violation",
			video: &model.Video{VideoID: "abc123"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(upsertSQL).
					WithArgs("abc123", "", "", "").
					WillReturnError(&pgconn.PgError{Code: "23502"})
			},
			wantCode: apperrors.CodeInvalidArg,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepo(t)
			tt.setup(mock)

			created, err := repo.Upsert(testContext(t), tt.video)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCreated, created)
				assert.Equal(t, tt.wantID, tt.video.ID)
				assert.Equal(t, createdAt, tt.video.CreatedAt)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "pgxmock expectations were not met")
		})
	}
}

func TestVideoRepository_List(t *testing.T) {
	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("ordered rows", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		rows := pgxmock.NewRows(videoRowColumns).
			AddRow(int64(1), "abc123", "First", "d/abc123.jpg", "d/abc123.webm", createdAt).
			AddRow(int64(2), "def456", "Second", "d/def456.jpg", "d/def456.webm", createdAt)
		mock.ExpectQuery(listSQL).WillReturnRows(rows)

		videos, err := repo.List(testContext(t))
		require.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, "abc123", videos[0].VideoID)
		assert.Equal(t, "def456", videos[1].VideoID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(listSQL).WillReturnRows(pgxmock.NewRows(videoRowColumns))

		videos, err := repo.List(testContext(t))
		require.NoError(t, err)
		assert.NotNil(t, videos)
		assert.Empty(t, videos)
	})

	t.Run("query error", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(listSQL).WillReturnError(assert.AnError)

		_, err := repo.List(testContext(t))
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInternal, apperrors.CodeOf(err))
	})
}

func TestHandlePostgreSQLError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{"non postgres error", assert.AnError, apperrors.CodeInternal, "op"},
		{"unique video_id", &pgconn.PgError{Code: "23505", ConstraintName: "videos_video_id_key"}, apperrors.CodeConflict, "video with this video_id already exists"},
		{"unique pkey", &pgconn.PgError{Code: "23505", ConstraintName: "videos_pkey"}, apperrors.CodeConflict, "video with this ID already exists"},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, apperrors.CodeInternal, "database schema error: table not found (run 'yt-vault migrate up')"},
		{"unknown code", &pgconn.PgError{Code: "XX000"}, apperrors.CodeInternal, "op: database error (PostgreSQL code: XX000)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handlePostgreSQLError(tt.err, "op")
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}

	assert.Nil(t, handlePostgreSQLError(nil, "op"))
}
