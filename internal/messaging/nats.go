package messaging

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
)

const (
	SubjectUserCreated = "user.created"
	SubjectUserDeleted = "user.deleted"
)

// UserEvent is the payload published on account lifecycle subjects.
type UserEvent struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Publisher emits account lifecycle events over NATS. Publishing is
// best-effort; the caller logs failures and moves on.
type Publisher struct {
	nc *nats.Conn
}

// Connect establishes the NATS connection. An empty URL falls back to the
// default local server address.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	return &Publisher{nc: nc}, nil
}

func (p *Publisher) PublishUserCreated(event UserEvent) error {
	return p.publish(SubjectUserCreated, event)
}

func (p *Publisher) PublishUserDeleted(event UserEvent) error {
	return p.publish(SubjectUserDeleted, event)
}

func (p *Publisher) publish(subject string, event UserEvent) error {
	if p.nc == nil || !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(subject, payload)
}

// Close drains the connection gracefully.
func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
