package orchestrator

import (
	"context"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map"

	"github.com/Taichi-iskw/yt-vault/internal/model"
)

// defaultKeepFinished bounds how many finished jobs stay visible in snapshots
const defaultKeepFinished = 200

type jobEntry struct {
	job    model.DownloadJob
	cancel context.CancelFunc
}

// jobRegistry tracks transient jobs in submission order
type jobRegistry struct {
	jobs         *orderedmap.OrderedMap
	lock         sync.RWMutex
	keepFinished int
}

func newJobRegistry(keepFinished int) *jobRegistry {
	if keepFinished <= 0 {
		keepFinished = defaultKeepFinished
	}
	return &jobRegistry{
		jobs:         orderedmap.New(),
		keepFinished: keepFinished,
	}
}

func (r *jobRegistry) add(job model.DownloadJob, cancel context.CancelFunc) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.jobs.Set(job.ID, &jobEntry{job: job, cancel: cancel})
}

// update applies fn to the stored job; unknown IDs are ignored
func (r *jobRegistry) update(id string, fn func(job *model.DownloadJob)) {
	r.lock.Lock()
	defer r.lock.Unlock()

	v, ok := r.jobs.Get(id)
	if !ok {
		return
	}
	entry := v.(*jobEntry)
	fn(&entry.job)
	if entry.job.Status.IsFinished() {
		r.pruneLocked()
	}
}

func (r *jobRegistry) get(id string) (model.DownloadJob, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	v, ok := r.jobs.Get(id)
	if !ok {
		return model.DownloadJob{}, false
	}
	return v.(*jobEntry).job, true
}

func (r *jobRegistry) list() []model.DownloadJob {
	r.lock.RLock()
	defer r.lock.RUnlock()

	jobs := make([]model.DownloadJob, 0, r.jobs.Len())
	for pair := r.jobs.Oldest(); pair != nil; pair = pair.Next() {
		jobs = append(jobs, pair.Value.(*jobEntry).job)
	}
	return jobs
}

// cancel fires the job's cancel func if it has not finished yet
func (r *jobRegistry) cancel(id string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	v, ok := r.jobs.Get(id)
	if !ok {
		return false
	}
	entry := v.(*jobEntry)
	if entry.job.Status.IsFinished() || entry.cancel == nil {
		return false
	}
	entry.cancel()
	return true
}

// pruneLocked drops the oldest finished jobs beyond keepFinished
func (r *jobRegistry) pruneLocked() {
	var finished []interface{}
	for pair := r.jobs.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.(*jobEntry).job.Status.IsFinished() {
			finished = append(finished, pair.Key)
		}
	}
	for i := 0; i < len(finished)-r.keepFinished; i++ {
		r.jobs.Delete(finished[i])
	}
}
