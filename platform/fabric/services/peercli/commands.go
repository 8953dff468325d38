/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package peercli

import (
	"encoding/json"
)

// Command is a peer CLI invocation expressed as an argument list.
// Arguments are passed to the peer binary as they are, no shell is involved.
type Command interface {
	SessionName() string
	Args() []string
}

// Ctor is the chaincode input passed with --ctor.
type Ctor struct {
	Function string   `json:"function"`
	Args     []string `json:"Args"`
}

// String returns the JSON encoding of the ctor. Args is always encoded as an array.
func (c Ctor) String() string {
	args := c.Args
	if args == nil {
		args = []string{}
	}
	raw, err := json.Marshal(Ctor{Function: c.Function, Args: args})
	if err != nil {
		// a struct of strings always marshals
		panic(err)
	}
	return string(raw)
}

// Peer identifies an endorsing peer and, when TLS is on, the root cert used to reach it.
type Peer struct {
	Address         string
	TLSRootCertFile string
}

type ChaincodeInvoke struct {
	ChannelID                  string
	Orderer                    string
	OrdererTLSHostnameOverride string
	TLS                        bool
	CAFile                     string
	Name                       string
	Ctor                       Ctor
	Peers                      []Peer
	WaitForEvent               bool
}

func (c ChaincodeInvoke) SessionName() string {
	return "peer-chaincode-invoke"
}

func (c ChaincodeInvoke) Args() []string {
	args := []string{
		"chaincode", "invoke",
		"--channelID", c.ChannelID,
		"--orderer", c.Orderer,
	}
	if c.OrdererTLSHostnameOverride != "" {
		args = append(args, "--ordererTLSHostnameOverride", c.OrdererTLSHostnameOverride)
	}
	if c.TLS {
		args = append(args, "--tls", "--cafile", c.CAFile)
	}
	args = append(args,
		"--name", c.Name,
		"--ctor", c.Ctor.String(),
	)
	args = appendPeers(args, c.Peers, c.TLS)
	if c.WaitForEvent {
		args = append(args, "--waitForEvent")
	}
	return args
}

type ChaincodeQuery struct {
	ChannelID string
	Name      string
	Ctor      Ctor
	TLS       bool
	Peers     []Peer
}

func (c ChaincodeQuery) SessionName() string {
	return "peer-chaincode-query"
}

func (c ChaincodeQuery) Args() []string {
	args := []string{
		"chaincode", "query",
		"--channelID", c.ChannelID,
		"--name", c.Name,
		"--ctor", c.Ctor.String(),
	}
	args = appendPeers(args, c.Peers, c.TLS)
	if c.TLS && len(c.Peers) > 0 {
		args = append(args, "--tls")
	}
	return args
}

type Version struct{}

func (Version) SessionName() string {
	return "peer-version"
}

func (Version) Args() []string {
	return []string{"version"}
}

func appendPeers(args []string, peers []Peer, tls bool) []string {
	for _, p := range peers {
		args = append(args, "--peerAddresses", p.Address)
		if tls {
			args = append(args, "--tlsRootCertFiles", p.TLSRootCertFile)
		}
	}
	return args
}
