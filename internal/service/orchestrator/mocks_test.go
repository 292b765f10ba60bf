package orchestrator

import (
	"context"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Taichi-iskw/yt-vault/internal/model"
)

// mockDownloader is a mock implementation of ytdlp.Service for testing
type mockDownloader struct {
	mock.Mock
}

func (m *mockDownloader) ListVideos(ctx context.Context, sourceURL string, maxCount int) ([]model.ListedVideo, error) {
	args := m.Called(ctx, sourceURL, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ListedVideo), args.Error(1)
}

func (m *mockDownloader) DownloadVideo(ctx context.Context, videoURL string, onLine func(string)) (*model.DownloadResult, error) {
	args := m.Called(ctx, videoURL, onLine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DownloadResult), args.Error(1)
}

func (m *mockDownloader) DownloadDir() string {
	return "downloads"
}

// mockVideoRepository is a mock implementation of VideoRepository for testing
type mockVideoRepository struct {
	mock.Mock
}

func (m *mockVideoRepository) GetByVideoID(ctx context.Context, videoID string) (*model.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *mockVideoRepository) Upsert(ctx context.Context, video *model.Video) (bool, error) {
	args := m.Called(ctx, video)
	return args.Bool(0), args.Error(1)
}

func (m *mockVideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Video), args.Error(1)
}

// recordingBroadcaster keeps every broadcast message
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (b *recordingBroadcaster) Broadcast(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, text)
}

func (b *recordingBroadcaster) all() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

func (b *recordingBroadcaster) withPrefix(prefix string) []string {
	var out []string
	for _, msg := range b.all() {
		if strings.HasPrefix(msg, prefix) {
			out = append(out, msg)
		}
	}
	return out
}

func videoWithID(id string) interface{} {
	return mock.MatchedBy(func(v *model.Video) bool { return v.VideoID == id })
}
