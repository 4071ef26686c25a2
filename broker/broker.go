// Package broker publishes trade events to a STOMP message broker.
package broker

import (
	"encoding/json"
	"fmt"

	"github.com/go-stomp/stomp/v3"
	"github.com/go-stomp/stomp/v3/frame"
	"github.com/gofiber/fiber/v2/log"
)

// Sender is the subset of *stomp.Conn used for publishing.
type Sender interface {
	Send(destination, contentType string, body []byte, opts ...func(*frame.Frame) error) error
}

// Connect dials the broker. An empty host disables publishing and returns a
// nil connection.
func Connect(network, host string) (*stomp.Conn, error) {
	if host == "" {
		log.Warn("MESSAGE_BROKER_HOST not set, trade events will not be published")
		return nil, nil
	}
	if network == "" {
		network = "tcp"
	}
	conn, err := stomp.Dial(network, host)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker at %s: %w", host, err)
	}
	log.Infof("Connected to message broker at %s", host)
	return conn, nil
}

func sendReliable(s Sender, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode message for %s: %w", queue, err)
	}
	if err := s.Send(queue, "application/json", body, stomp.SendOpt.Receipt); err != nil {
		return fmt.Errorf("failed to send to %s: %w", queue, err)
	}
	return nil
}
