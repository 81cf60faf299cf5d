package export

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"quartz-render/jobs"
	"quartz-render/render"
	"quartz-render/timeline"
)

// Progress is persisted every progressStride frames; every beat still
// goes out over the event bus.
const progressStride = 30

// Registry tracks live export jobs by job id. Each job owns its own
// encoder process and compositor; the registry only routes cancellation
// and answers liveness questions.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*liveJob
}

type liveJob struct {
	id     string
	cancel context.CancelFunc
}

func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*liveJob),
	}
}

// Submit persists a job record and starts the export in the background,
// returning the new job id. Callers validate options and elements first;
// errors here mean the record could not be created.
func (r *Registry) Submit(opts timeline.RenderOptions, elements []timeline.Element) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	if err := jobs.Create(id, opts.DestinationPath, timeline.TotalFrames(opts.TotalDuration)); err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &liveJob{id: id, cancel: cancel}
	r.mu.Lock()
	r.jobs[id] = job
	r.mu.Unlock()

	go r.run(ctx, job, opts, elements)
	return id, nil
}

// Cancel requests cooperative cancellation of a live job. It reports
// false when no job with this id is currently running.
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return false
	}
	job.cancel()
	return true
}

// ActiveIDs returns the ids of jobs still running, sorted for stable
// output.
func (r *Registry) ActiveIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.jobs))
	for id := range r.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.jobs, id)
	r.mu.Unlock()
}

func (r *Registry) run(ctx context.Context, job *liveJob, opts timeline.RenderOptions, elements []timeline.Element) {
	defer func() {
		job.cancel()
		r.remove(job.id)
	}()

	// One snapshot feeds both the compositor and the audio graph, so
	// drawing order and audio input numbering agree.
	snapshot := timeline.Snapshot(elements)
	session := NewSession(opts, snapshot)
	comp := render.NewCompositor(opts, snapshot)
	total := comp.TotalFrames()

	log.Infof("job %s: %d elements, %d frames -> %s", job.id, len(snapshot), total, opts.DestinationPath)
	log.Debugf("job %s: filter %s", job.id, session.Graph().Filter)
	if err := jobs.SetStatus(job.id, jobs.StatusRendering); err != nil {
		log.Errorln(err)
	}

	lastFrame := 0
	outcome := Run(ctx, session, comp, func(current, total int) {
		lastFrame = current
		jobs.Publish(jobs.Event{
			JobID:        job.id,
			Status:       jobs.StatusRendering,
			CurrentFrame: current,
			TotalFrames:  total,
		})
		if current%progressStride == 0 || current == total {
			if err := jobs.SetProgress(job.id, current, total); err != nil {
				log.Errorln(err)
			}
		}
	})

	var status jobs.Status
	switch outcome.Result {
	case ResultCompleted:
		status = jobs.StatusCompleted
		log.Infof("job %s: completed", job.id)
		if err := jobs.SetStatus(job.id, status); err != nil {
			log.Errorln(err)
		}
	case ResultCancelled:
		status = jobs.StatusCancelled
		log.Infof("job %s: cancelled after %d frames", job.id, lastFrame)
		if err := jobs.SetStatus(job.id, status); err != nil {
			log.Errorln(err)
		}
	default:
		status = jobs.StatusFailed
		log.Errorf("job %s: %v", job.id, outcome.Err)
		if err := jobs.Fail(job.id, outcome.Err.Error()); err != nil {
			log.Errorln(err)
		}
	}

	jobs.Publish(jobs.Event{
		JobID:        job.id,
		Status:       status,
		CurrentFrame: lastFrame,
		TotalFrames:  total,
	})
}
