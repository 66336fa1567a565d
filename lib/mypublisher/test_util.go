package mypublisher

import (
	"context"
	"sync"

	"github.com/dropshiphq/storefront/lib/myevents"
)

// RecordingPublisher captures published events for assertions in tests.
type RecordingPublisher struct {
	sync.Mutex
	Events []myevents.Event
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) CreateTopic(c context.Context, topicName string) error {
	return nil
}

func (p *RecordingPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	p.Lock()
	defer p.Unlock()
	p.Events = append(p.Events, event)
	return nil
}
