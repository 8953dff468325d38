/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package start

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperledger-labs/peerweb/node/version"
	"github.com/hyperledger-labs/peerweb/platform/common/services/logging"
	"github.com/hyperledger-labs/peerweb/platform/fabric/services/chaincode"
	"github.com/hyperledger-labs/peerweb/platform/fabric/services/peercli"
	"github.com/hyperledger-labs/peerweb/platform/view/services/config"
	"github.com/hyperledger-labs/peerweb/platform/view/services/events"
	"github.com/hyperledger-labs/peerweb/platform/view/services/events/kafka"
	"github.com/hyperledger-labs/peerweb/platform/view/services/events/simple"
	"github.com/hyperledger-labs/peerweb/platform/view/services/metrics"
	"github.com/hyperledger-labs/peerweb/platform/view/services/operations"
	"github.com/hyperledger-labs/peerweb/platform/view/services/server/web"
	"github.com/hyperledger-labs/peerweb/platform/view/services/server/web/middleware"
	"github.com/hyperledger-labs/peerweb/platform/view/services/storage/history"
	"github.com/pkg/errors"
	"github.com/tedsuo/ifrit"
	"github.com/tedsuo/ifrit/grouper"
)

var (
	webLogger = logging.MustGetLogger("peerweb.server.web")
	opsLogger = logging.MustGetLogger("peerweb.operations")
)

// Peerweb holds the services of a running front end.
type Peerweb struct {
	Executor   *peercli.Executor
	Service    *chaincode.Service
	History    history.Store
	Web        *web.Server
	Operations *web.Server

	minPeerVersion string
	opsSystem      *operations.System
	kafka          *kafka.Listener
}

// New builds every service from the configuration. Nothing listens until the runner
// returned by Runner is started.
func New(cp *config.Provider) (*Peerweb, error) {
	p := &Peerweb{minPeerVersion: cp.GetString("fabric.peer.minVersion")}

	ccConfig, err := chaincode.NewConfig(cp)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid fabric configuration")
	}

	metricsProvider, err := metrics.NewProvider(cp.GetString("metrics.provider"))
	if err != nil {
		return nil, err
	}

	historyLimit := cp.GetInt("history.limit")
	p.History, err = history.New(history.Config{
		Type:     history.PersistenceType(cp.GetString("history.persistence.type")),
		Path:     cp.GetPath("history.persistence.path"),
		Capacity: historyLimit,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed opening history")
	}

	var bus events.EventSystem = simple.NewEventBus()
	recorder := history.NewListener(p.History)
	bus.Subscribe(chaincode.InvokeTopic, recorder)
	bus.Subscribe(chaincode.QueryTopic, recorder)
	if cp.GetBool("events.kafka.enabled") {
		var kc kafka.Config
		if err := cp.UnmarshalKey("events.kafka", &kc); err != nil {
			p.Close()
			return nil, errors.Wrap(err, "invalid kafka configuration")
		}
		if len(kc.Topic) == 0 {
			kc.Topic = cp.GetString("events.kafka.topic")
		}
		if p.kafka, err = kafka.New(kc); err != nil {
			p.Close()
			return nil, err
		}
		bus.Subscribe(chaincode.InvokeTopic, p.kafka)
		bus.Subscribe(chaincode.QueryTopic, p.kafka)
	}

	p.Executor = peercli.NewExecutor(peercli.Config{
		Binary:     peerBinary(cp),
		WorkingDir: cp.GetPath("fabric.peer.workingDir"),
		Env:        cp.GetStringSlice("fabric.peer.env"),
		Timeout:    cp.GetDuration("fabric.peer.timeout"),
	})
	p.Service = chaincode.NewService(p.Executor, ccConfig, chaincode.NewMetrics(metricsProvider), bus)

	dispatcher, err := web.NewDispatcher(p.Service, p.History, historyLimit, webLogger)
	if err != nil {
		p.Close()
		return nil, err
	}
	handler := web.NewHttpHandler(webLogger)
	dispatcher.Install(handler, middleware.NewKeyedLimiter(
		cp.GetFloat64("web.rateLimit.invoke.rps"),
		cp.GetInt("web.rateLimit.invoke.burst"),
	))
	p.Web = web.NewServer(serverOptions(cp, "web", webLogger))
	p.Web.RegisterHandler("/", handler, false)

	if cp.GetString("operations.address") != "" {
		opts := serverOptions(cp, "operations", opsLogger)
		p.Operations = web.NewServer(opts)
		p.opsSystem = operations.NewOperationSystem(p.Operations, opsLogger, metricsProvider, &operations.Options{
			TLS:     opts.TLS.Enabled,
			Metrics: operations.MetricsOptions{Provider: cp.GetString("metrics.provider"), TLS: opts.TLS.Enabled},
			Version: version.Version,
		})
	}

	return p, nil
}

// peerBinary resolves a relative path against the config file directory. A bare name is
// looked up in PATH.
func peerBinary(cp *config.Provider) string {
	binary := cp.GetString("fabric.peer.binary")
	if strings.ContainsRune(binary, filepath.Separator) {
		return cp.TranslatePath(binary)
	}
	return binary
}

func serverOptions(cp *config.Provider, prefix string, l web.Logger) web.Options {
	var clientRootCAs []string
	for _, path := range cp.GetStringSlice(prefix + ".tls.clientRootCAs.files") {
		clientRootCAs = append(clientRootCAs, cp.TranslatePath(path))
	}
	return web.Options{
		Logger:        l,
		ListenAddress: cp.GetString(prefix + ".address"),
		TLS: web.TLS{
			Enabled:           cp.GetBool(prefix + ".tls.enabled"),
			CertFile:          cp.GetPath(prefix + ".tls.cert.file"),
			KeyFile:           cp.GetPath(prefix + ".tls.key.file"),
			ClientCACertFiles: clientRootCAs,
		},
		ReadTimeout:  cp.GetDuration(prefix + ".readTimeout"),
		WriteTimeout: cp.GetDuration(prefix + ".writeTimeout"),
	}
}

// CheckPeer verifies the peer CLI is recent enough, when a minimum version is configured.
func (p *Peerweb) CheckPeer(ctx context.Context) error {
	return peercli.CheckVersion(ctx, p.Executor, p.minPeerVersion)
}

// Runner starts the operations server, then the web server. On a signal they stop in
// reverse order, the web server first waiting for running requests.
func (p *Peerweb) Runner() ifrit.Runner {
	var members grouper.Members
	if p.Operations != nil {
		members = append(members, grouper.Member{Name: "operations", Runner: ifrit.RunFunc(p.runOperations)})
	}
	members = append(members, grouper.Member{Name: "web", Runner: p.Web})
	return grouper.NewOrdered(os.Interrupt, members)
}

func (p *Peerweb) runOperations(signals <-chan os.Signal, ready chan<- struct{}) error {
	if err := p.opsSystem.Start(); err != nil {
		return err
	}
	defer p.opsSystem.Stop()
	return p.Operations.Run(signals, ready)
}

// Close releases the history store and the kafka producer. The first failure is returned.
func (p *Peerweb) Close() error {
	var firstErr error
	if p.kafka != nil {
		if err := p.kafka.Close(); err != nil {
			firstErr = errors.Wrap(err, "failed closing kafka producer")
		}
	}
	if p.History != nil {
		if err := p.History.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "failed closing history")
		}
	}
	return firstErr
}
