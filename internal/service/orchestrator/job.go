package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-vault/internal/errors"
	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/Taichi-iskw/yt-vault/internal/service/ytdlp"
)

// RunDownloadJob makes the single download attempt for job and stores the
// result. Failures are logged and broadcast, never returned.
func (o *Orchestrator) RunDownloadJob(ctx context.Context, job model.DownloadJob) {
	log := o.log.WithFields(logrus.Fields{
		"job":   job.ID,
		"url":   job.URL,
		"index": job.Index,
		"total": job.Total,
	})

	if err := ctx.Err(); err != nil {
		o.fail(ctx, job, err, log)
		return
	}

	o.jobs.update(job.ID, func(j *model.DownloadJob) {
		j.Status = model.JobStatusDownloading
	})
	o.broadcastf("⬇️ Скачивание %d/%d: %s", job.Index, job.Total, job.URL)
	log.Info("download started")

	result, err := o.downloader.DownloadVideo(ctx, job.URL, o.progressForwarder(job, log))
	if err != nil {
		o.fail(ctx, job, err, log)
		return
	}

	o.jobs.update(job.ID, func(j *model.DownloadJob) {
		j.VideoID = result.VideoID
	})

	created, err := o.videoRepo.Upsert(ctx, result.ToVideo())
	if err != nil {
		o.fail(ctx, job, err, log)
		return
	}

	if created {
		o.broadcastf("✅ Готово %d/%d: %s", job.Index, job.Total, result.Title)
	} else {
		o.broadcastf("🔄 Обновлено %d/%d: %s", job.Index, job.Total, result.Title)
	}
	log.WithFields(logrus.Fields{"video_id": result.VideoID, "created": created}).Info("download finished")

	o.finish(job.ID, model.JobStatusSucceeded, "")
}

func (o *Orchestrator) fail(ctx context.Context, job model.DownloadJob, err error, log logrus.FieldLogger) {
	msg := errors.Truncate(err.Error(), errorMessageLimit)
	status := model.JobStatusFailed
	if ctx.Err() != nil {
		status = model.JobStatusCancelled
	}

	log.WithError(err).WithField("status", status).Error("download job failed")
	o.broadcastf("❌ Ошибка %d/%d: %s", job.Index, job.Total, msg)
	o.finish(job.ID, status, msg)
}

func (o *Orchestrator) finish(id string, status model.JobStatus, msg string) {
	o.jobs.update(id, func(j *model.DownloadJob) {
		j.Status = status
		j.LastError = msg
		j.FinishedAt = time.Now()
	})
}

// progressForwarder relays marker lines to subscribers. [download] lines are
// rate limited per job except for the final 100% line.
func (o *Orchestrator) progressForwarder(job model.DownloadJob, log logrus.FieldLogger) func(string) {
	debounce := NewDebounce(o.opts.ProgressInterval)
	return func(line string) {
		if !ytdlp.IsProgressLine(line) {
			return
		}
		if ytdlp.IsDownloadLine(line) && !strings.Contains(line, "100%") && !debounce.Check() {
			return
		}
		log.Debug(line)
		o.broadcastf("⏳ %d/%d: %s", job.Index, job.Total, line)
	}
}
