/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package events

// Event is a message published on a topic.
type Event interface {
	Topic() string
	Message() interface{}
}

// Keyed events carry a partitioning key, used by brokers that support one.
type Keyed interface {
	Key() string
}

type Listener interface {
	OnReceive(event Event)
}

type Publisher interface {
	Publish(event Event)
}

type Subscriber interface {
	Subscribe(topic string, receiver Listener)
	Unsubscribe(topic string, receiver Listener)
}

type EventSystem interface {
	Publisher
	Subscriber
}
