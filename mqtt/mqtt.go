// Package mqtt publishes inverter readings to an MQTT broker, one retained
// message per value under a common topic prefix.
package mqtt

import (
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/brokenrelease/samilstatus/samil"
)

const timeout = 5 * time.Second

var ErrTimeout = errors.New("mqtt: timed out")

type Config struct {
	Broker   string
	ClientID string
	// Topic prefix, "samil/<name>" when empty
	Topic string
}

type Message struct {
	Topic   string
	Payload string
}

// Messages lists what gets published for r under topic.
func Messages(topic string, r *samil.Result) []Message {
	if !r.Online {
		return []Message{{topic + "/InverterOnline", "0"}}
	}

	msgs := []Message{
		{topic + "/InverterOnline", "1"},
		{topic + "/Time", r.Time.Format(time.RFC3339)},
	}
	for _, v := range r.Values {
		msgs = append(msgs, Message{
			Topic:   fmt.Sprintf("%s/%s_%s", topic, v.Label, v.Unit),
			Payload: fmt.Sprintf("%.2f", v.Value),
		})
	}
	return msgs
}

type Publisher struct {
	client paho.Client
	topic  string
	log    *logrus.Logger
}

// Connect connects to the broker in cfg. name is the inverter name.
func Connect(cfg Config, name string, log *logrus.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(timeout).
		SetAutoReconnect(false)

	client := paho.NewClient(opts)
	if err := wait(client.Connect()); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Broker, err)
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "samil/" + name
	}
	return &Publisher{client: client, topic: topic, log: log}, nil
}

func (p *Publisher) Publish(r *samil.Result) error {
	for _, m := range Messages(p.topic, r) {
		p.log.Debugf("Publishing %s = %s", m.Topic, m.Payload)
		if err := wait(p.client.Publish(m.Topic, 0, true, m.Payload)); err != nil {
			return fmt.Errorf("publishing %s: %w", m.Topic, err)
		}
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func wait(t paho.Token) error {
	if !t.WaitTimeout(timeout) {
		return ErrTimeout
	}
	return t.Error()
}
