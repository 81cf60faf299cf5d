package jobs

import (
	"sync"

	"github.com/google/uuid"
)

// Event is one progress beat for a job, pushed to subscribers as the
// exporter advances. Status rides along so a single stream carries both
// progress and the terminal outcome.
type Event struct {
	JobID        string `json:"jobId"`
	Status       Status `json:"status"`
	CurrentFrame int    `json:"currentFrame"`
	TotalFrames  int    `json:"totalFrames"`
}

type Queue struct {
	id uuid.UUID
	Ch chan Event
}

func newQueue() *Queue {
	return &Queue{
		id: uuid.Must(uuid.NewV7()),
		// Buffered so a briefly slow consumer does not stall publishing.
		Ch: make(chan Event, 16),
	}
}

var listenersMu sync.RWMutex
var listeners = make(map[string][]*Queue)

func Subscribe(jobID string) *Queue {
	q := newQueue()
	listenersMu.Lock()
	listeners[jobID] = append(listeners[jobID], q)
	listenersMu.Unlock()
	return q
}

func Unsubscribe(jobID string, q *Queue) {
	listenersMu.Lock()
	defer listenersMu.Unlock()

	qs, ok := listeners[jobID]
	if !ok {
		return
	}
	newQs := []*Queue{}
	for _, oldQ := range qs {
		if oldQ.id != q.id {
			newQs = append(newQs, oldQ)
		}
	}
	if len(newQs) == 0 {
		delete(listeners, jobID)
	} else {
		listeners[jobID] = newQs
	}
}

// Publish fans event out to every subscriber of its job. A subscriber
// whose buffer is full misses this beat rather than blocking the
// exporter; the next beat carries fresher numbers anyway. Terminal
// beats are the exception: there is no next beat, so a full buffer
// drops its oldest entry to make room.
func Publish(event Event) {
	listenersMu.RLock()
	defer listenersMu.RUnlock()

	for _, q := range listeners[event.JobID] {
		select {
		case q.Ch <- event:
			continue
		default:
		}
		if !event.Status.Terminal() {
			continue
		}
		select {
		case <-q.Ch:
		default:
		}
		select {
		case q.Ch <- event:
		default:
		}
	}
}

// SubscriberCount reports how many queues are listening on a job.
func SubscriberCount(jobID string) int {
	listenersMu.RLock()
	defer listenersMu.RUnlock()
	return len(listeners[jobID])
}
