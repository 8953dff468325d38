/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package kafka

import (
	"encoding/json"

	"github.com/Shopify/sarama"
	"github.com/hyperledger-labs/peerweb/platform/common/services/logging"
	"github.com/hyperledger-labs/peerweb/platform/view/services/events"
	"github.com/pkg/errors"
)

var logger = logging.MustGetLogger("peerweb.events.kafka")

// TopicHeader carries the name of the bus topic the event was published on.
const TopicHeader = "peerweb-topic"

// Config selects the brokers and the topic events are forwarded to.
type Config struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// New connects a sync producer to c.Brokers and returns a listener publishing on c.Topic.
func New(c Config) (*Listener, error) {
	if len(c.Topic) == 0 {
		return nil, errors.New("no kafka topic configured")
	}
	producer, err := NewSyncProducer(c.Brokers)
	if err != nil {
		return nil, err
	}
	return NewListener(producer, c.Topic), nil
}

// NewSyncProducer connects to the given brokers. Sends are acknowledged by all in-sync replicas.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	p, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "failed connecting to kafka brokers %v", brokers)
	}
	return p, nil
}

func producerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "peerweb"
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	return cfg
}

// Listener forwards every event it receives to a kafka topic, JSON encoded.
type Listener struct {
	producer sarama.SyncProducer
	topic    string
}

func NewListener(producer sarama.SyncProducer, topic string) *Listener {
	return &Listener{producer: producer, topic: topic}
}

func (l *Listener) OnReceive(event events.Event) {
	raw, err := json.Marshal(event.Message())
	if err != nil {
		logger.Errorf("failed encoding event on [%s]: %s", event.Topic(), err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: l.topic,
		Value: sarama.ByteEncoder(raw),
		Headers: []sarama.RecordHeader{
			{Key: []byte(TopicHeader), Value: []byte(event.Topic())},
		},
	}
	if k, ok := event.(events.Keyed); ok {
		msg.Key = sarama.StringEncoder(k.Key())
	}
	partition, offset, err := l.producer.SendMessage(msg)
	if err != nil {
		logger.Errorf("failed publishing event on [%s] to kafka topic [%s]: %s", event.Topic(), l.topic, err)
		return
	}
	logger.Debugf("published event on [%s] to [%s/%d] at offset [%d]", event.Topic(), l.topic, partition, offset)
}

func (l *Listener) Close() error {
	return l.producer.Close()
}
