package soundscape

import (
	"sync"
	"time"
)

// repeatJob is the single cancellable self-rescheduling handle used for
// every periodic soundscape pattern. A fixed-interval repeat and a
// cycling pattern differ only in what next returns, so both bowl
// strikes (jittered interval) and the breathing bell (4-7-8 cycle) use
// the same representation and the same teardown path.
type repeatJob struct {
	next func() time.Duration
	fire func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// startRepeatJob schedules the first firing and returns the handle.
func startRepeatJob(next func() time.Duration, fire func()) *repeatJob {
	j := &repeatJob{next: next, fire: fire}
	j.schedule()
	return j
}

func (j *repeatJob) schedule() {
	// next may take locks of its own, so it runs outside j.mu.
	d := j.next()

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopped {
		return
	}
	j.timer = time.AfterFunc(d, func() {
		j.mu.Lock()
		stopped := j.stopped
		j.mu.Unlock()
		if stopped {
			return
		}
		j.fire()
		j.schedule()
	})
}

// Stop cancels the job. A job that already fired its timer callback
// will observe stopped and go quiet. Stopping twice is a safe no-op;
// forgetting to stop would leak a periodic sound.
func (j *repeatJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopped = true
	if j.timer != nil {
		j.timer.Stop()
	}
}
