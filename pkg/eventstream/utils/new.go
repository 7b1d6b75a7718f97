// Package eventstreamutils selects an eventstream publisher from configuration.
package eventstreamutils

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/planora/planora/pkg/eventstream"
	"github.com/planora/planora/pkg/eventstream/kafka"
	"github.com/planora/planora/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	// Brokers is a comma-separated list of Kafka brokers. Empty disables
	// publishing.
	Brokers string

	// Topic is the Kafka topic events are written to.
	Topic string

	Logger *slog.Logger
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	brokers := SplitBrokers(o.Brokers)
	if len(brokers) == 0 {
		if o.Logger != nil {
			o.Logger.Debug("event publishing disabled, no brokers configured")
		}
		return nop.NewPublisher(), nil
	}

	if strings.TrimSpace(o.Topic) == "" {
		return nil, errors.New("event stream topic is required when brokers are set")
	}

	p, err := kafka.NewPublisher(kafka.Config{
		Brokers: brokers,
		Topic:   o.Topic,
	})
	if err != nil {
		return nil, err
	}

	if o.Logger != nil {
		o.Logger.Info("publishing relay events to kafka",
			"brokers", strings.Join(brokers, ","),
			"topic", o.Topic,
		)
	}
	return p, nil
}

// SplitBrokers splits a comma-separated broker list, dropping blanks.
func SplitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
