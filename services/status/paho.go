//go:build !tinygo

package status

import (
	"context"
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"wifiwake-go/errcode"
)

// Paho is a Publisher over eclipse/paho.mqtt.golang.
type Paho struct {
	client mqtt.Client
}

// Dial connects to broker (e.g. tcp://host:1883) within timeout.
func Dial(broker, clientID string, timeout time.Duration) (*Paho, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(timeout).
		SetAutoReconnect(false).
		SetCleanSession(true)
	c := mqtt.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(timeout) {
		return nil, &errcode.E{C: errcode.Timeout, Op: "status.dial", Msg: broker}
	}
	if err := tok.Error(); err != nil {
		return nil, errcode.Wrap(errcode.Error, "status.dial", err)
	}
	return &Paho{client: c}, nil
}

func (p *Paho) Publish(ctx context.Context, topic string, payload []byte, qos byte, retain bool) error {
	tok := p.client.Publish(topic, qos, retain, payload)
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &errcode.E{C: errcode.Timeout, Op: "status.publish", Msg: topic}
		}
		return ctx.Err()
	}
}

func (p *Paho) Close() error {
	p.client.Disconnect(250)
	return nil
}
