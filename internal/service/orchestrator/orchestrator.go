package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-vault/internal/errors"
	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/Taichi-iskw/yt-vault/internal/repository"
	"github.com/Taichi-iskw/yt-vault/internal/service/ytdlp"
)

// Default option values
const (
	DefaultMaxVideos        = 10
	DefaultProgressInterval = time.Second
	// errorMessageLimit is how many runes of an error reach subscribers
	errorMessageLimit = 100
)

// Broadcaster fans status text out to live subscribers
type Broadcaster interface {
	Broadcast(text string)
}

// Options configures an Orchestrator
type Options struct {
	// DefaultChannelURL is used when a parse request carries no URL
	DefaultChannelURL string
	DefaultMaxVideos  int
	// MaxConcurrentDownloads caps running jobs; 0 means unlimited
	MaxConcurrentDownloads int
	// ProgressInterval is the minimum gap between forwarded [download] lines of one job
	ProgressInterval time.Duration
	// KeepFinishedJobs bounds the finished jobs returned by Jobs
	KeepFinishedJobs int
}

// Orchestrator turns parse requests into independent background download jobs
type Orchestrator struct {
	downloader  ytdlp.Service
	videoRepo   repository.VideoRepository
	broadcaster Broadcaster
	log         logrus.FieldLogger
	opts        Options

	queue   *Queue
	jobs    *jobRegistry
	baseCtx context.Context
	stop    context.CancelFunc
}

// New creates an Orchestrator. Jobs run under its own context, independent of
// the request that scheduled them, until Shutdown gives up waiting.
func New(downloader ytdlp.Service, videoRepo repository.VideoRepository, broadcaster Broadcaster, opts Options, log logrus.FieldLogger) *Orchestrator {
	if opts.DefaultMaxVideos <= 0 {
		opts.DefaultMaxVideos = DefaultMaxVideos
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}

	baseCtx, stop := context.WithCancel(context.Background())
	return &Orchestrator{
		downloader:  downloader,
		videoRepo:   videoRepo,
		broadcaster: broadcaster,
		log:         log,
		opts:        opts,
		queue:       NewQueue(opts.MaxConcurrentDownloads),
		jobs:        newJobRegistry(opts.KeepFinishedJobs),
		baseCtx:     baseCtx,
		stop:        stop,
	}
}

// HandleParseRequest resolves the video list and schedules one job per video.
// It returns as soon as the jobs are scheduled.
func (o *Orchestrator) HandleParseRequest(ctx context.Context, req model.ParseRequest) (*model.ParseResult, error) {
	sourceURL := strings.TrimSpace(req.ChannelURL)
	if sourceURL == "" {
		sourceURL = o.opts.DefaultChannelURL
	}
	if sourceURL == "" {
		return nil, errors.New(errors.CodeConfiguration, "channel_url is required: pass it in the request or set CHANNEL_URL")
	}

	maxVideos := req.MaxVideos
	if maxVideos <= 0 {
		maxVideos = o.opts.DefaultMaxVideos
	}

	log := o.log.WithFields(logrus.Fields{"url": sourceURL, "max_videos": maxVideos})
	log.Info("parse request received")
	o.broadcastf("🔍 Начинаем парсинг канала: %s", sourceURL)

	videos, err := o.downloader.ListVideos(ctx, sourceURL, maxVideos)
	if err != nil {
		log.WithError(err).Error("failed to list videos")
		return nil, err
	}

	total := len(videos)
	o.broadcastf("✅ Найдено %d видео", total)

	jobIDs := make([]string, 0, total)
	for i, video := range videos {
		job := model.DownloadJob{
			ID:        uuid.NewString(),
			URL:       ytdlp.WatchURL(video.ID),
			Index:     i + 1,
			Total:     total,
			Status:    model.JobStatusQueued,
			VideoID:   video.ID,
			CreatedAt: time.Now(),
		}
		o.broadcastf("📥 Добавлено в очередь %d/%d: %s", job.Index, job.Total, video.DisplayTitle())
		o.submit(job)
		jobIDs = append(jobIDs, job.ID)
	}

	log.WithField("scheduled", total).Info("download jobs scheduled")

	return &model.ParseResult{
		Message:   fmt.Sprintf("Начато скачивание %d видео", total),
		Scheduled: total,
		JobIDs:    jobIDs,
	}, nil
}

func (o *Orchestrator) submit(job model.DownloadJob) {
	ctx, cancel := context.WithCancel(o.baseCtx)
	o.jobs.add(job, cancel)
	o.queue.Submit(ctx, func(ctx context.Context) {
		defer cancel()
		o.RunDownloadJob(ctx, job)
	})
}

// Jobs returns a snapshot of known jobs in submission order
func (o *Orchestrator) Jobs() []model.DownloadJob {
	return o.jobs.list()
}

// Job returns a snapshot of one job
func (o *Orchestrator) Job(id string) (model.DownloadJob, bool) {
	return o.jobs.get(id)
}

// Cancel stops a queued or running job. It returns false for unknown or finished jobs.
func (o *Orchestrator) Cancel(id string) bool {
	return o.jobs.cancel(id)
}

// Wait blocks until every scheduled job has finished
func (o *Orchestrator) Wait() {
	o.queue.Wait()
}

// Shutdown waits for running jobs until ctx is done, then cancels whatever is
// left and waits for it to unwind.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.queue.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.stop()
		return nil
	case <-ctx.Done():
		o.log.Warn("shutdown deadline reached, cancelling running jobs")
		o.stop()
		<-done
		return ctx.Err()
	}
}

func (o *Orchestrator) broadcastf(format string, args ...interface{}) {
	o.broadcaster.Broadcast(fmt.Sprintf(format, args...))
}
