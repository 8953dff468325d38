/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/hyperledger-labs/peerweb/platform/common/services/logging"
	"github.com/pkg/errors"
)

var logger = logging.MustGetLogger("peerweb.profile")

const DefaultMemProfileRate = 4096

type Option func(*Profile) error

func WithPath(path string) Option {
	return func(p *Profile) error {
		if path == "" {
			return errors.New("path is required")
		}
		p.path = path
		return nil
	}
}

// WithAll turns on the memory, mutex and block profiles on top of the CPU one.
func WithAll() Option {
	return func(p *Profile) error {
		p.memory = true
		p.mutex = true
		p.block = true
		return nil
	}
}

// Profile writes pprof files into a directory, from Start until Stop.
type Profile struct {
	path   string
	memory bool
	mutex  bool
	block  bool

	closers []func()
}

func New(opts ...Option) (*Profile, error) {
	p := &Profile{}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.path == "" {
		return nil, errors.New("path is required")
	}
	return p, nil
}

func (p *Profile) Start() error {
	if err := os.MkdirAll(p.path, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create profile directory: %s", p.path)
	}

	f, err := p.create("cpu.pprof")
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return errors.Wrap(err, "failed to start cpu profile")
	}
	p.closers = append(p.closers, func() {
		pprof.StopCPUProfile()
		f.Close()
	})

	if p.memory {
		old := runtime.MemProfileRate
		runtime.MemProfileRate = DefaultMemProfileRate
		if err := p.lookupOnStop("heap", func() { runtime.MemProfileRate = old }); err != nil {
			return err
		}
		if err := p.lookupOnStop("allocs", nil); err != nil {
			return err
		}
	}
	if p.mutex {
		runtime.SetMutexProfileFraction(1)
		if err := p.lookupOnStop("mutex", func() { runtime.SetMutexProfileFraction(0) }); err != nil {
			return err
		}
	}
	if p.block {
		runtime.SetBlockProfileRate(1)
		if err := p.lookupOnStop("block", func() { runtime.SetBlockProfileRate(0) }); err != nil {
			return err
		}
	}

	logger.Infof("profiling into [%s]", p.path)
	return nil
}

// Stop flushes every profile. Profiles are written in reverse start order.
func (p *Profile) Stop() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
	p.closers = nil
	logger.Infof("profiling stopped")
}

func (p *Profile) create(name string) (*os.File, error) {
	f, err := os.Create(filepath.Join(p.path, name))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create profile [%s]", name)
	}
	return f, nil
}

// lookupOnStop writes the named runtime profile when the profiler stops, then runs reset.
func (p *Profile) lookupOnStop(name string, reset func()) error {
	f, err := p.create(fmt.Sprintf("%s.pprof", name))
	if err != nil {
		return err
	}
	p.closers = append(p.closers, func() {
		if prof := pprof.Lookup(name); prof != nil {
			if err := prof.WriteTo(f, 0); err != nil {
				logger.Warnf("failed writing [%s] profile: %s", name, err)
			}
		}
		f.Close()
		if reset != nil {
			reset()
		}
	})
	return nil
}
