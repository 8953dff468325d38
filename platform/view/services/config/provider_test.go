/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type endorser struct {
	Address         string
	TLSRootCertFile string
}

func TestReadFile(t *testing.T) {
	p, err := NewProvider("./testdata")
	require.NoError(t, err)

	caFile, _ := filepath.Abs("testdata/organizations/ordererOrganizations/example.com/orderers/orderer.example.com/msp/tlscacerts/tlsca.example.com-cert.pem")
	workingDir, _ := filepath.Abs("testdata/network")

	assert.Equal(t, "0.0.0.0:5000", p.GetString("web.address"))
	assert.Equal(t, "/usr/local/bin/peer", p.GetString("fabric.peer.binary"))
	assert.Equal(t, workingDir, p.GetPath("fabric.peer.workingDir"))
	assert.Equal(t, 30*time.Second, p.GetDuration("fabric.peer.timeout"))
	assert.Equal(t, []string{"FABRIC_CFG_PATH=/etc/hyperledger/fabric", "CORE_PEER_LOCALMSPID=Hospital1MSP"}, p.GetStringSlice("fabric.peer.env"))
	assert.True(t, p.GetBool("fabric.tls.enabled"))
	assert.Equal(t, caFile, p.GetPath("fabric.tls.caFile"))
	assert.Equal(t, "hospitalchannel", p.GetString("fabric.channel"))

	var endorsers []endorser
	require.NoError(t, p.UnmarshalKey("fabric.endorsers", &endorsers))
	require.Len(t, endorsers, 2)
	assert.Equal(t, "localhost:9051", endorsers[1].Address)
	assert.Equal(t, "/abs/hospital2/ca.crt", p.TranslatePath(endorsers[1].TLSRootCertFile))
}

func TestDefaults(t *testing.T) {
	p, err := NewProvider("./testdata")
	require.NoError(t, err)

	assert.Equal(t, "Increment", p.GetString("fabric.invoke.function"))
	assert.Equal(t, "GetValue", p.GetString("fabric.query.function"))
	assert.Equal(t, "memory", p.GetString("history.persistence.type"))
	assert.Equal(t, 100, p.GetInt("history.limit"))
	assert.Equal(t, "127.0.0.1:9443", p.GetString("operations.address"))
}

func TestMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(PathEnv, t.TempDir())

	p, err := NewProvider("")
	require.NoError(t, err)
	assert.Empty(t, p.ConfigFileUsed())
	assert.Equal(t, "peer", p.GetString("fabric.peer.binary"))
}

func TestMissingPathEnv(t *testing.T) {
	t.Setenv(PathEnv, filepath.Join(t.TempDir(), "nope"))

	_, err := NewProvider("")
	assert.ErrorContains(t, err, "does not exist")
}

func TestEnvSubstitution(t *testing.T) {
	t.Setenv("PEERWEB_FABRIC_CHANNEL", "otherchannel")
	t.Setenv("PEERWEB_FABRIC_PEER_TIMEOUT", "10s")
	t.Setenv("PEERWEB_FABRIC_TLS_ENABLED", "false")
	t.Setenv("PEERWEB_HISTORY_LIMIT", "7")
	t.Setenv("PEERWEB_WEB_ADDRESS", "") // empty env vars are disregarded
	t.Setenv("PEERWEB_FABRIC_PEER", "cannot replace a map")

	p, err := NewProvider("./testdata")
	require.NoError(t, err)

	assert.Equal(t, "otherchannel", p.GetString("fabric.channel"))
	assert.Equal(t, 10*time.Second, p.GetDuration("fabric.peer.timeout"))
	assert.False(t, p.GetBool("fabric.tls.enabled"))
	assert.Equal(t, 7, p.GetInt("history.limit"))
	assert.Equal(t, "0.0.0.0:5000", p.GetString("web.address"))
	assert.Equal(t, "/usr/local/bin/peer", p.GetString("fabric.peer.binary"))

	// siblings of the overridden key survive
	assert.Equal(t, "Simple", p.GetString("fabric.chaincode"))
	var endorsers []endorser
	require.NoError(t, p.UnmarshalKey("fabric.endorsers", &endorsers))
	assert.Len(t, endorsers, 2)
}

func TestTranslatePath(t *testing.T) {
	assert.Equal(t, "/a/b", TranslatePath("/base", "/a/b"))
	assert.Equal(t, "/base/a/b", TranslatePath("/base", "a/b"))
}
