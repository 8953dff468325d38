/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package start

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hyperledger-labs/peerweb/node/start/profile"
	"github.com/hyperledger-labs/peerweb/platform/common/services/logging"
	"github.com/hyperledger-labs/peerweb/platform/view/services/config"
	"github.com/spf13/cobra"
	"github.com/tedsuo/ifrit"
)

var logger = logging.MustGetLogger("peerweb.node.start")

// Cmd returns the cobra command starting the front end.
func Cmd(confPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Starts the peerweb front end.",
		Long:  `Starts the web front end that runs the peer CLI, and the operations server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			cmd.SilenceUsage = true
			return serve(*confPath)
		},
	}
}

func boolEnv(name string) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Infof("Error parsing boolean environment variable %s: %s", name, err)
		return false
	}
	return v
}

func serve(confPath string) error {
	cp, err := config.NewProvider(confPath)
	if err != nil {
		return err
	}

	if boolEnv("PEERWEB_PROFILER") {
		profiler, err := profile.New(profile.WithPath(cp.TranslatePath("profiles")), profile.WithAll())
		if err != nil {
			return err
		}
		if err := profiler.Start(); err != nil {
			return err
		}
		defer profiler.Stop()
	}

	sighupIgnore := boolEnv("PEERWEB_SIGHUP_IGNORE")
	if sighupIgnore {
		logger.Infof("SIGHUP signal will be ignored")
	}

	p, err := New(cp)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warnf("failed closing services: %s", err)
		}
	}()

	if err := p.CheckPeer(context.Background()); err != nil {
		return err
	}

	process := ifrit.Invoke(p.Runner())
	stop := func() { process.Signal(os.Interrupt) }
	go handleSignals(addPlatformSignals(map[os.Signal]func(){
		syscall.SIGINT: func() {
			logger.Infof("Received SIGINT, exiting...")
			stop()
		},
		syscall.SIGTERM: func() {
			logger.Infof("Received SIGTERM, exiting...")
			stop()
		},
		syscall.SIGHUP: func() {
			if sighupIgnore {
				logger.Infof("Received SIGHUP, but ignoring it")
				return
			}
			logger.Infof("Received SIGHUP, exiting...")
			stop()
		},
	}))

	select {
	case <-process.Ready():
		logger.Infof("Started peerweb, web [%s], operations [%s]", p.Web.Addr(), operationsAddr(p))
	case err := <-process.Wait():
		return err
	}
	return <-process.Wait()
}

func operationsAddr(p *Peerweb) string {
	if p.Operations == nil {
		return "disabled"
	}
	return p.Operations.Addr()
}

func handleSignals(handlers map[os.Signal]func()) {
	var signals []os.Signal
	for sig := range handlers {
		signals = append(signals, sig)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, signals...)

	for sig := range signalChan {
		logger.Infof("Received signal: %d (%s)", sig, sig)
		handlers[sig]()
	}
}
