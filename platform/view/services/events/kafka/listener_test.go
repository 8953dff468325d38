/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package kafka

import (
	"encoding/json"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type run struct {
	RunID  string `json:"runId"`
	Status string `json:"status"`
}

type keyedEvent struct {
	r run
}

func (e keyedEvent) Topic() string        { return "peerweb.run.invoke" }
func (e keyedEvent) Message() interface{} { return e.r }
func (e keyedEvent) Key() string          { return e.r.RunID }

func TestListenerPublishes(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var r run
		if err := json.Unmarshal(val, &r); err != nil {
			return err
		}
		if r.RunID != "run-1" || r.Status != "success" {
			return errors.Errorf("unexpected payload %s", val)
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	l := NewListener(producer, "peerweb-runs")
	l.OnReceive(keyedEvent{r: run{RunID: "run-1", Status: "success"}})
	// a failing send is logged, not propagated
	l.OnReceive(keyedEvent{r: run{RunID: "run-2", Status: "failure"}})

	require.NoError(t, l.Close())
}

func TestListenerSkipsUnencodableMessages(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	l := NewListener(producer, "peerweb-runs")
	l.OnReceive(unencodable{})
	require.NoError(t, l.Close())
}

type unencodable struct{}

func (unencodable) Topic() string        { return "peerweb.run.query" }
func (unencodable) Message() interface{} { return make(chan int) }

func TestNewSyncProducerRequiresBrokers(t *testing.T) {
	_, err := NewSyncProducer(nil)
	assert.EqualError(t, err, "no kafka brokers configured")
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Brokers: []string{"127.0.0.1:9092"}})
	assert.EqualError(t, err, "no kafka topic configured")

	_, err = New(Config{Topic: "peerweb.runs"})
	assert.EqualError(t, err, "no kafka brokers configured")
}
