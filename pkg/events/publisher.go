package events

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
)

// Publisher sends events to NATS. A nil connection turns publishing into a
// logged no-op, which keeps wiring simple in tests and in setups without a
// broker.
type Publisher struct {
	nc     *nats.Conn
	logger *log.Logger
}

func NewPublisher(nc *nats.Conn, logger *log.Logger) *Publisher {
	return &Publisher{nc: nc, logger: logger}
}

// Publish marshals and sends the event. Errors are logged, never returned.
func (p *Publisher) Publish(e Event) {
	subject, err := Subject(e)
	if err != nil {
		p.logger.Warn("Dropping event with no subject", "error", err)
		return
	}

	if p.nc == nil {
		p.logger.Debug("No NATS connection, dropping event", "subject", subject)
		return
	}

	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.Warn("Failed to marshal event", "subject", subject, "error", err)
		return
	}

	if err := p.nc.Publish(subject, payload); err != nil {
		p.logger.Warn("Failed to publish event", "subject", subject, "error", err)
	}
}
