/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package simple

import (
	"slices"
	"sync"

	"github.com/hyperledger-labs/peerweb/platform/view/services/events"
)

// eventBus delivers events synchronously, in subscription order.
type eventBus struct {
	handlers map[string][]events.Listener
	lock     sync.RWMutex
}

func NewEventBus() *eventBus {
	return &eventBus{
		handlers: make(map[string][]events.Listener),
	}
}

func (e *eventBus) Publish(event events.Event) {
	if event == nil {
		return
	}

	e.lock.RLock()
	subs := e.handlers[event.Topic()]
	e.lock.RUnlock()

	for _, sub := range subs {
		sub.OnReceive(event)
	}
}

func (e *eventBus) Subscribe(topic string, receiver events.Listener) {
	if receiver == nil {
		return
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	e.handlers[topic] = append(slices.Clip(e.handlers[topic]), receiver)
}

func (e *eventBus) Unsubscribe(topic string, receiver events.Listener) {
	if receiver == nil {
		return
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	handlers, ok := e.handlers[topic]
	if !ok {
		return
	}
	idx := slices.Index(handlers, receiver)
	if idx == -1 {
		return
	}
	// copy so that in-flight Publish calls keep their snapshot
	handlers = slices.Delete(slices.Clone(handlers), idx, idx+1)
	if len(handlers) == 0 {
		delete(e.handlers, topic)
		return
	}
	e.handlers[topic] = handlers
}
