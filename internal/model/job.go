package model

import "time"

// JobStatus represents the lifecycle state of a download job
type JobStatus string

const (
	// JobStatusQueued means the job has been submitted but not started
	JobStatusQueued JobStatus = "queued"

	// JobStatusDownloading means yt-dlp is running for this job
	JobStatusDownloading JobStatus = "downloading"

	// JobStatusSucceeded means the video was downloaded and stored
	JobStatusSucceeded JobStatus = "succeeded"

	// JobStatusFailed means the single download attempt failed
	JobStatusFailed JobStatus = "failed"

	// JobStatusCancelled means the job's context was cancelled
	JobStatusCancelled JobStatus = "cancelled"
)

// IsFinished returns true if the job will not change state again
func (s JobStatus) IsFinished() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed || s == JobStatusCancelled
}

// DownloadJob is one transient download-and-persist unit of work
type DownloadJob struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Index      int       `json:"index"`
	Total      int       `json:"total"`
	Status     JobStatus `json:"status"`
	VideoID    string    `json:"video_id,omitempty"`
	LastError  string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// ParseRequest is the body of a parse-channel call
type ParseRequest struct {
	ChannelURL string `json:"channel_url"`
	MaxVideos  int    `json:"max_videos"`
}

// ParseResult acknowledges a parse request once its jobs are scheduled
type ParseResult struct {
	Message   string   `json:"message"`
	Scheduled int      `json:"-"`
	JobIDs    []string `json:"-"`
}
