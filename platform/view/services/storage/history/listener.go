/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package history

import (
	"github.com/hyperledger-labs/peerweb/platform/view/services/events"
)

// Listener stores every Record it receives as an event message.
type Listener struct {
	store Store
}

func NewListener(store Store) *Listener {
	return &Listener{store: store}
}

func (l *Listener) OnReceive(event events.Event) {
	r, ok := event.Message().(Record)
	if !ok {
		logger.Warnf("ignoring event on [%s] with message of type [%T]", event.Topic(), event.Message())
		return
	}
	if err := l.store.Add(r); err != nil {
		logger.Errorf("failed storing run [%s]: %s", r.RunID, err)
	}
}
