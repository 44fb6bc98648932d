package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// EventType is the type attribute of published events.
const EventType = "driver-manager.drivers.changed"

// Phase tells which pass produced a change event.
type Phase string

const (
	// PhaseInitial is the fast pass computed with cached update titles.
	PhaseInitial Phase = "initial"
	// PhaseFinal is the pass recomputed after the update lookup settled.
	PhaseFinal Phase = "final"
	// PhaseSingle is an authoritative single-device check.
	PhaseSingle Phase = "single"
	// PhaseInstall follows a completed install pipeline.
	PhaseInstall Phase = "install"
)

// Change is the payload of a driver change event.
type Change struct {
	PassID    string    `json:"pass_id"`
	Phase     Phase     `json:"phase"`
	DeviceIDs []string  `json:"device_ids"`
	Total     int       `json:"total"`
	Updates   int       `json:"updates_available"`
	Timestamp time.Time `json:"timestamp"`
}

// Event is a CloudEvents 1.0 envelope around a Change.
type Event struct {
	SpecVersion     string     `json:"specversion"`
	ID              string     `json:"id"`
	Source          string     `json:"source"`
	Type            string     `json:"type"`
	DataContentType string     `json:"datacontenttype"`
	Subject         string     `json:"subject"`
	Time            *time.Time `json:"time,omitempty"`
	Data            Change     `json:"data"`
}

// Notifier announces driver status changes.
type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

// Publisher is the subset of *nats.Conn used to publish events.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes change events to a NATS subject.
type NATSNotifier struct {
	pub     Publisher
	subject string
	source  string
	logger  *zap.Logger
}

// NewNATSNotifier creates a notifier publishing through pub.
func NewNATSNotifier(pub Publisher, subject, source string, logger *zap.Logger) *NATSNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSNotifier{pub: pub, subject: subject, source: source, logger: logger}
}

// Notify publishes change as a CloudEvent.
func (n *NATSNotifier) Notify(ctx context.Context, change Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if change.Timestamp.IsZero() {
		change.Timestamp = time.Now()
	}
	if change.DeviceIDs == nil {
		change.DeviceIDs = []string{}
	}

	event := Event{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          n.source,
		Type:            EventType,
		DataContentType: "application/json",
		Subject:         n.subject,
		Time:            &change.Timestamp,
		Data:            change,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := n.pub.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	n.logger.Debug("Published change event",
		zap.String("event_id", event.ID),
		zap.String("subject", n.subject),
		zap.String("phase", string(change.Phase)),
		zap.Int("devices", len(change.DeviceIDs)),
	)
	return nil
}

// Nop discards every change.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Change) error { return nil }

// Connect dials NATS and returns a notifier and a close function.
func Connect(cfg Config, logger *zap.Logger) (*NATSNotifier, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("driver-manager"),
		nats.Timeout(time.Duration(timeout)*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	source := cfg.Source
	if source == "" {
		source = DefaultSource()
	}

	closeFn := func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return NewNATSNotifier(nc, cfg.Subject, source, logger), closeFn, nil
}

// DefaultSource returns the event source for this host.
func DefaultSource() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return "driver-manager/" + host
}
