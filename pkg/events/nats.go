package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lcorp/storefront/pkg/config"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATS publishes events to a JetStream stream.
type NATS struct {
	conn    *nats.Conn
	js      streamPublisher
	subject string
}

// NewNATS connects, makes sure the stream exists and returns a publisher.
func NewNATS(ctx context.Context, cfg config.EventsConfig, logg *logger.Logger) (*NATS, error) {
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("storefront-gateway"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject},
		Storage:  jetstream.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.Stream, err)
	}

	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"stream": cfg.Stream, "subject": cfg.Subject}), "nats jetstream ready")
	}
	return &NATS{conn: conn, js: js, subject: cfg.Subject}, nil
}

// PublishOrderPlaced publishes evt, deduplicated by its event id.
func (n *NATS) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode order placed: %w", err)
	}
	if _, err := n.js.Publish(ctx, n.subject, payload, jetstream.WithMsgID(evt.EventID)); err != nil {
		return fmt.Errorf("publish %s: %w", n.subject, err)
	}
	return nil
}

func (n *NATS) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}
