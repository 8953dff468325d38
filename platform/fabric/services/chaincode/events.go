/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"github.com/hyperledger-labs/peerweb/platform/view/services/storage/history"
)

const (
	InvokeTopic = "peerweb.run.invoke"
	QueryTopic  = "peerweb.run.query"
)

// RunEvent announces a completed peer CLI run.
type RunEvent struct {
	Record history.Record
}

func (e *RunEvent) Topic() string {
	if e.Record.Kind == history.Query {
		return QueryTopic
	}
	return InvokeTopic
}

func (e *RunEvent) Message() interface{} {
	return e.Record
}

func (e *RunEvent) Key() string {
	return e.Record.RunID
}
