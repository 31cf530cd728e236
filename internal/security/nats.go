package security

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/checkout-system/checkout-orchestrator/internal/models"
)

// AlertSubject is the broadcast subject consumed by the banner UI.
const AlertSubject = "security.alert"

// NATSSink publishes emitted alerts to the process-wide broadcast
// channel. No acknowledgment is expected.
type NATSSink struct {
	conn *nats.Conn
}

func NewNATSSink(conn *nats.Conn) *NATSSink {
	return &NATSSink{conn: conn}
}

func (s *NATSSink) Publish(event models.AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.conn.Publish(AlertSubject, payload)
}
