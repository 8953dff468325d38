/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"github.com/hyperledger-labs/peerweb/platform/fabric/services/peercli"
	"github.com/pkg/errors"
)

type ConfigProvider interface {
	GetBool(key string) bool
	GetString(key string) string
	GetStringSlice(key string) []string
	GetPath(key string) string
	TranslatePath(path string) string
	UnmarshalKey(key string, rawVal interface{}) error
}

// Function is the chaincode function a command calls.
type Function struct {
	Name         string
	Args         []string
	WaitForEvent bool
}

type Config struct {
	Channel                    string
	Chaincode                  string
	Orderer                    string
	OrdererTLSHostnameOverride string
	TLS                        bool
	CAFile                     string
	Endorsers                  []peercli.Peer
	QueryPeers                 []peercli.Peer
	Invoke                     Function
	Query                      Function
}

type peerConfig struct {
	Address         string `mapstructure:"address"`
	TLSRootCertFile string `mapstructure:"tlsRootCertFile"`
}

// NewConfig reads the fabric section of the configuration. Relative paths are resolved
// against the directory of the configuration file.
func NewConfig(cp ConfigProvider) (*Config, error) {
	c := &Config{
		Channel:                    cp.GetString("fabric.channel"),
		Chaincode:                  cp.GetString("fabric.chaincode"),
		Orderer:                    cp.GetString("fabric.orderer.address"),
		OrdererTLSHostnameOverride: cp.GetString("fabric.orderer.tlsHostnameOverride"),
		TLS:                        cp.GetBool("fabric.tls.enabled"),
		CAFile:                     cp.GetPath("fabric.tls.caFile"),
		Invoke: Function{
			Name:         cp.GetString("fabric.invoke.function"),
			Args:         cp.GetStringSlice("fabric.invoke.args"),
			WaitForEvent: cp.GetBool("fabric.invoke.waitForEvent"),
		},
		Query: Function{
			Name: cp.GetString("fabric.query.function"),
			Args: cp.GetStringSlice("fabric.query.args"),
		},
	}
	var err error
	if c.Endorsers, err = peers(cp, "fabric.endorsers"); err != nil {
		return nil, err
	}
	if c.QueryPeers, err = peers(cp, "fabric.query.peers"); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func peers(cp ConfigProvider, key string) ([]peercli.Peer, error) {
	var raw []peerConfig
	if err := cp.UnmarshalKey(key, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed reading [%s]", key)
	}
	res := make([]peercli.Peer, 0, len(raw))
	for i, p := range raw {
		if p.Address == "" {
			return nil, errors.Errorf("[%s] entry [%d] has no address", key, i)
		}
		res = append(res, peercli.Peer{
			Address:         p.Address,
			TLSRootCertFile: cp.TranslatePath(p.TLSRootCertFile),
		})
	}
	return res, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Channel == "":
		return errors.New("fabric.channel must be set")
	case c.Chaincode == "":
		return errors.New("fabric.chaincode must be set")
	case c.Orderer == "":
		return errors.New("fabric.orderer.address must be set")
	case c.Invoke.Name == "":
		return errors.New("fabric.invoke.function must be set")
	case c.Query.Name == "":
		return errors.New("fabric.query.function must be set")
	case c.TLS && c.CAFile == "":
		return errors.New("fabric.tls.caFile must be set when TLS is enabled")
	}
	if c.TLS {
		for _, p := range append(append([]peercli.Peer{}, c.Endorsers...), c.QueryPeers...) {
			if p.TLSRootCertFile == "" {
				return errors.Errorf("peer [%s] has no tlsRootCertFile but TLS is enabled", p.Address)
			}
		}
	}
	return nil
}

func (c *Config) InvokeCommand() peercli.ChaincodeInvoke {
	return peercli.ChaincodeInvoke{
		ChannelID:                  c.Channel,
		Orderer:                    c.Orderer,
		OrdererTLSHostnameOverride: c.OrdererTLSHostnameOverride,
		TLS:                        c.TLS,
		CAFile:                     c.CAFile,
		Name:                       c.Chaincode,
		Ctor:                       peercli.Ctor{Function: c.Invoke.Name, Args: c.Invoke.Args},
		Peers:                      c.Endorsers,
		WaitForEvent:               c.Invoke.WaitForEvent,
	}
}

func (c *Config) QueryCommand() peercli.ChaincodeQuery {
	return peercli.ChaincodeQuery{
		ChannelID: c.Channel,
		Name:      c.Chaincode,
		Ctor:      peercli.Ctor{Function: c.Query.Name, Args: c.Query.Args},
		TLS:       c.TLS,
		Peers:     c.QueryPeers,
	}
}
