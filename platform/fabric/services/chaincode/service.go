/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"context"
	"strings"

	"github.com/hyperledger-labs/peerweb/platform/fabric/services/peercli"
	"github.com/hyperledger-labs/peerweb/platform/view/services/events"
	"github.com/hyperledger-labs/peerweb/platform/view/services/storage/history"
	"go.uber.org/atomic"
)

// Service runs the configured invoke and query commands.
// Every call launches its own process; concurrent calls are not serialized.
type Service struct {
	runner    peercli.Runner
	invoke    peercli.Command
	query     peercli.Command
	metrics   *Metrics
	publisher events.Publisher
	inFlight  map[history.Kind]*atomic.Int64
}

// NewService returns a Service running the commands described by c.
// A nil publisher disables run events.
func NewService(runner peercli.Runner, c *Config, m *Metrics, publisher events.Publisher) *Service {
	return &Service{
		runner:    runner,
		invoke:    c.InvokeCommand(),
		query:     c.QueryCommand(),
		metrics:   m,
		publisher: publisher,
		inFlight: map[history.Kind]*atomic.Int64{
			history.Invoke: atomic.NewInt64(0),
			history.Query:  atomic.NewInt64(0),
		},
	}
}

func (s *Service) Invoke(ctx context.Context) *peercli.Result {
	return s.run(ctx, history.Invoke, s.invoke)
}

func (s *Service) Query(ctx context.Context) *peercli.Result {
	return s.run(ctx, history.Query, s.query)
}

// InFlight returns the number of runs of the given kind currently executing.
func (s *Service) InFlight(kind history.Kind) int64 {
	return s.inFlight[kind].Load()
}

func (s *Service) run(ctx context.Context, kind history.Kind, cmd peercli.Command) *peercli.Result {
	gauge := s.metrics.InFlight.With("kind", string(kind))
	gauge.Add(1)
	s.inFlight[kind].Inc()
	defer func() {
		s.inFlight[kind].Dec()
		gauge.Add(-1)
	}()

	res := s.runner.Run(ctx, cmd)

	s.metrics.Invocations.With("kind", string(kind), "status", res.Status()).Add(1)
	s.metrics.Duration.With("kind", string(kind)).Observe(res.Duration.Seconds())

	switch {
	case res.Err != nil:
		logger.Errorf("[%s] %s failed: %s", res.RunID, kind, res.Err)
	case res.ExitCode != 0:
		logger.Warnf("[%s] %s exited with [%d]: %s", res.RunID, kind, res.ExitCode, strings.TrimSpace(res.Stderr))
	default:
		logger.Infof("[%s] %s succeeded in [%s]", res.RunID, kind, res.Duration)
	}

	if s.publisher != nil {
		s.publisher.Publish(&RunEvent{Record: NewRecord(kind, res)})
	}
	return res
}

// NewRecord projects a Result into its history Record.
func NewRecord(kind history.Kind, res *peercli.Result) history.Record {
	r := history.Record{
		RunID:      res.RunID,
		Kind:       kind,
		Args:       res.Args,
		Status:     res.Status(),
		ExitCode:   res.ExitCode,
		Stdout:     res.Stdout,
		Stderr:     res.Stderr,
		StartedAt:  res.StartedAt,
		DurationMs: res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		r.Error = res.Err.Error()
	}
	return r
}
