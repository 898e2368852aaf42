// Package messaging publishes domain events to NATS.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/pkg/metrics"
)

type Config struct {
	URL           string
	SubjectPrefix string
	ClientName    string
}

// publishConn is the subset of *nats.Conn used by Publisher.
type publishConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher sends JSON-encoded events on <prefix>.<subject>.
type Publisher struct {
	conn   publishConn
	prefix string
	log    zerolog.Logger
}

// NewPublisher connects to cfg.URL with unlimited reconnects so a broker
// restart does not require restarting the API.
func NewPublisher(cfg Config, log zerolog.Logger) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newPublisher(conn, cfg.SubjectPrefix, log), nil
}

func newPublisher(conn publishConn, prefix string, log zerolog.Logger) *Publisher {
	return &Publisher{conn: conn, prefix: strings.Trim(prefix, "."), log: log}
}

func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := p.subject(subject)
	data, err := json.Marshal(payload)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(subject, "error").Inc()
		return fmt.Errorf("encode %s: %w", full, err)
	}

	if err := p.conn.Publish(full, data); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(subject, "error").Inc()
		return fmt.Errorf("publish %s: %w", full, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(subject, "success").Inc()
	p.log.Debug().Str("subject", full).Msg("event published")
	return nil
}

func (p *Publisher) subject(s string) string {
	if p.prefix == "" {
		return s
	}
	return p.prefix + "." + s
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
