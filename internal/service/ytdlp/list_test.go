package ytdlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-vault/internal/errors"
	"github.com/Taichi-iskw/yt-vault/internal/logger"
	"github.com/Taichi-iskw/yt-vault/internal/model"
)

func TestService_ListVideos(t *testing.T) {
	tests := []struct {
		name       string
		sourceURL  string
		maxCount   int
		mockSetup  func(*mockCmdRunner)
		wantVideos []model.ListedVideo
		wantCode   string
	}{
		{
			name:      "channel with two videos",
			sourceURL: "https://www.youtube.com/@example/videos",
			maxCount:  2,
			mockSetup: func(m *mockCmdRunner) {
				expectedArgs := []string{
					"--dump-json",
					"--flat-playlist",
					"--playlist-end", "2",
					"https://www.youtube.com/@example/videos",
				}
				jsonResponse := `{"id": "abc123", "title": "First", "url": "https://www.youtube.com/watch?v=abc123"}
{"id": "def456", "title": "Second", "url": "https://www.youtube.com/watch?v=def456"}`
				m.On("Run", mock.Anything, "yt-dlp", expectedArgs).Return([]byte(jsonResponse), nil)
			},
			wantVideos: []model.ListedVideo{
				{ID: "abc123", Title: "First"},
				{ID: "def456", Title: "Second"},
			},
		},
		{
			name:      "single video URL returns one entry",
			sourceURL: "https://www.youtube.com/watch?v=abc123",
			maxCount:  10,
			mockSetup: func(m *mockCmdRunner) {
				m.On("Run", mock.Anything, "yt-dlp", mock.AnythingOfType("[]string")).
					Return([]byte(`{"id": "abc123", "title": "Only one"}`+"\n"), nil)
			},
			wantVideos: []model.ListedVideo{{ID: "abc123", Title: "Only one"}},
		},
		{
			name:      "fewer entries than max returns all of them",
			sourceURL: "https://www.youtube.com/@small",
			maxCount:  10,
			mockSetup: func(m *mockCmdRunner) {
				jsonResponse := `{"id": "a1", "title": "A"}
{"id": "b2", "title": "B"}
{"id": "c3", "title": "C"}`
				m.On("Run", mock.Anything, "yt-dlp", mock.AnythingOfType("[]string")).Return([]byte(jsonResponse), nil)
			},
			wantVideos: []model.ListedVideo{{ID: "a1", Title: "A"}, {ID: "b2", Title: "B"}, {ID: "c3", Title: "C"}},
		},
		{
			name:      "never more than max even if yt-dlp prints extra",
			sourceURL: "https://www.youtube.com/@big",
			maxCount:  1,
			mockSetup: func(m *mockCmdRunner) {
				jsonResponse := `{"id": "a1", "title": "A"}
{"id": "b2", "title": "B"}`
				m.On("Run", mock.Anything, "yt-dlp", mock.AnythingOfType("[]string")).Return([]byte(jsonResponse), nil)
			},
			wantVideos: []model.ListedVideo{{ID: "a1", Title: "A"}},
		},
		{
			name:      "zero max means no playlist-end",
			sourceURL: "https://www.youtube.com/@all",
			maxCount:  0,
			mockSetup: func(m *mockCmdRunner) {
				expectedArgs := []string{"--dump-json", "--flat-playlist", "https://www.youtube.com/@all"}
				m.On("Run", mock.Anything, "yt-dlp", expectedArgs).Return([]byte(`{"id": "a1", "title": "A"}`), nil)
			},
			wantVideos: []model.ListedVideo{{ID: "a1", Title: "A"}},
		},
		{
			name:      "empty output",
			sourceURL: "https://www.youtube.com/@empty",
			maxCount:  5,
			mockSetup: func(m *mockCmdRunner) {
				m.On("Run", mock.Anything, "yt-dlp", mock.AnythingOfType("[]string")).Return([]byte(""), nil)
			},
			wantVideos: []model.ListedVideo{},
		},
		{
			name:      "entries without id are skipped",
			sourceURL: "https://www.youtube.com/@odd",
			maxCount:  5,
			mockSetup: func(m *mockCmdRunner) {
				m.On("Run", mock.Anything, "yt-dlp", mock.AnythingOfType("[]string")).
					Return([]byte(`{"title": "no id"}`+"\n"+`{"id": "x1"}`), nil)
			},
			wantVideos: []model.ListedVideo{{ID: "x1"}},
		},
		{
			name:      "yt-dlp failure is an extraction error",
			sourceURL: "https://www.youtube.com/@private",
			maxCount:  5,
			mockSetup: func(m *mockCmdRunner) {
				m.On("Run", mock.Anything, "yt-dlp", mock.AnythingOfType("[]string")).
					Return(nil, &exitError{code: 1})
			},
			wantCode: errors.CodeExternal,
		},
		{
			name:      "malformed JSON",
			sourceURL: "https://www.youtube.com/@broken",
			maxCount:  5,
			mockSetup: func(m *mockCmdRunner) {
				m.On("Run", mock.Anything, "yt-dlp", mock.AnythingOfType("[]string")).Return([]byte("not json"), nil)
			},
			wantCode: errors.CodeInternal,
		},
		{
			name:      "empty URL",
			sourceURL: "",
			maxCount:  5,
			mockSetup: func(m *mockCmdRunner) {},
			wantCode:  errors.CodeInvalidArg,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRunner := &mockCmdRunner{}
			tt.mockSetup(mockRunner)

			svc := NewServiceWithCmdRunner(mockRunner, Options{}, logger.Discard())
			videos, err := svc.ListVideos(context.Background(), tt.sourceURL, tt.maxCount)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.CodeOf(err))
				assert.Nil(t, videos)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantVideos, videos)
				if tt.maxCount > 0 {
					assert.LessOrEqual(t, len(videos), tt.maxCount)
				}
			}

			mockRunner.AssertExpectations(t)
		})
	}
}

func TestService_ListVideos_CustomBinary(t *testing.T) {
	mockRunner := &mockCmdRunner{}
	mockRunner.On("Run", mock.Anything, "/opt/bin/yt-dlp", mock.AnythingOfType("[]string")).
		Return([]byte(`{"id": "a1", "title": "A"}`), nil)

	svc := NewServiceWithCmdRunner(mockRunner, Options{BinaryPath: "/opt/bin/yt-dlp"}, logger.Discard())
	videos, err := svc.ListVideos(context.Background(), "https://www.youtube.com/@x", 1)

	require.NoError(t, err)
	assert.Len(t, videos, 1)
	mockRunner.AssertExpectations(t)
}
