/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperledger-labs/peerweb/platform/common/services/logging"
	viperutil "github.com/hyperledger-labs/peerweb/platform/view/services/config/viper"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// CmdRoot is both the config file name (peerweb.yaml) and the environment prefix (PEERWEB_).
	CmdRoot = "peerweb"
	// PathEnv overrides the directories searched for the config file.
	PathEnv = "PEERWEB_CFG_PATH"
)

const OfficialPath = "/etc/peerweb"

var logOutput = os.Stderr

var defaults = map[string]interface{}{
	"logging.spec":               "info",
	"web.address":                "127.0.0.1:5000",
	"web.rateLimit.invoke.rps":   0,
	"web.rateLimit.invoke.burst": 1,
	"operations.address":         "127.0.0.1:9443",
	"metrics.provider":           "prometheus",
	"fabric.peer.binary":         "peer",
	"fabric.invoke.function":     "Increment",
	"fabric.query.function":      "GetValue",
	"history.persistence.type":   "memory",
	"history.limit":              100,
	"events.kafka.enabled":       false,
	"events.kafka.topic":         "peerweb.runs",
}

type Provider struct {
	confPath string
	Backend  *viper.Viper
}

// NewProvider loads peerweb.yaml from confPath (if not empty), $PEERWEB_CFG_PATH, the
// working directory or OfficialPath, applies PEERWEB_ environment overrides, and
// initializes logging from the result.
func NewProvider(confPath string) (*Provider, error) {
	p := &Provider{confPath: confPath}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Provider) GetDuration(key string) time.Duration {
	return p.Backend.GetDuration(key)
}

func (p *Provider) GetBool(key string) bool {
	return p.Backend.GetBool(key)
}

func (p *Provider) GetInt(key string) int {
	return p.Backend.GetInt(key)
}

func (p *Provider) GetFloat64(key string) float64 {
	return p.Backend.GetFloat64(key)
}

func (p *Provider) GetString(key string) string {
	return p.Backend.GetString(key)
}

func (p *Provider) GetStringSlice(key string) []string {
	return p.Backend.GetStringSlice(key)
}

func (p *Provider) UnmarshalKey(key string, rawVal interface{}) error {
	return viperutil.EnhancedExactUnmarshal(p.Backend, key, rawVal)
}

func (p *Provider) IsSet(key string) bool {
	return p.Backend.IsSet(key)
}

// GetPath returns the path stored under key, resolved against the directory of the
// config file when relative.
func (p *Provider) GetPath(key string) string {
	return p.TranslatePath(p.Backend.GetString(key))
}

func (p *Provider) TranslatePath(path string) string {
	if path == "" {
		return ""
	}
	return TranslatePath(filepath.Dir(p.Backend.ConfigFileUsed()), path)
}

func (p *Provider) ConfigFileUsed() string {
	return p.Backend.ConfigFileUsed()
}

// AllSettings returns the effective configuration as a nested map.
func (p *Provider) AllSettings() map[string]interface{} {
	return p.Backend.AllSettings()
}

func (p *Provider) load() error {
	p.Backend = viper.New()
	for k, v := range defaults {
		p.Backend.SetDefault(k, v)
	}
	if err := p.initViper(p.Backend, CmdRoot); err != nil {
		return err
	}

	if err := p.Backend.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.WithMessagef(err, "error when reading %s config file", CmdRoot)
		}
		fmt.Fprintf(logOutput, "no %s.yaml found, using defaults and environment\n", CmdRoot)
	}

	if err := p.substituteEnv(); err != nil {
		return err
	}

	logging.Init(logging.Config{
		Format:  p.Backend.GetString("logging.format"),
		LogSpec: p.Backend.GetString("logging.spec"),
		Writer:  logOutput,
	})

	return nil
}

// Manually override keys if the respective environment variable is set, because viper doesn't do
// that for UnmarshalKey values.
// Example: PEERWEB_FABRIC_CHANNEL sets fabric.channel.
func (p *Provider) substituteEnv() error {
	prefix := strings.ToUpper(CmdRoot) + "_"
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, prefix) || strings.HasPrefix(e, PathEnv+"=") {
			continue
		}

		env := strings.Split(e, "=")
		if len(env[1]) == 0 {
			continue
		}
		key, val := env[0], strings.Join(env[1:], "=")

		noprefix := strings.TrimPrefix(key, prefix)
		key = strings.ToLower(strings.ReplaceAll(noprefix, "_", "."))

		keys := strings.Split(key, ".")
		if len(keys) < 2 {
			p.Backend.Set(key, val)
			continue
		}
		parent := strings.Join(keys[:len(keys)-1], ".")
		if !p.Backend.IsSet(parent) {
			p.Backend.Set(key, val)
			continue
		}

		if k := p.Backend.GetStringMap(key); len(k) > 0 {
			fmt.Fprintln(logOutput, "-- skipping "+env[0]+": cannot override maps")
			continue
		}

		root := p.Backend.GetStringMap(keys[0])
		if err := setDeepValue(root, keys, val); err != nil {
			return errors.Wrapf(err, "error when substituting %s", env[0])
		}
		p.Backend.Set(keys[0], root)
	}
	return nil
}

// setDeepValue sets value at the deepest level of m, creating intermediate maps as needed.
func setDeepValue(m map[string]interface{}, keys []string, value interface{}) error {
	if len(keys) < 2 {
		return errors.New("can't set root key")
	}

	current := m
	for i := 1; i < len(keys)-1; i++ {
		key := keys[i]
		next, ok := current[key]
		if !ok {
			created := map[string]interface{}{}
			current[key] = created
			current = created
			continue
		}
		nextMap, ok := next.(map[string]interface{})
		if !ok {
			return errors.New("expected map at key " + key)
		}
		current = nextMap
	}
	current[keys[len(keys)-1]] = value

	return nil
}

func (p *Provider) initViper(v *viper.Viper, configName string) error {
	if len(p.confPath) != 0 {
		v.AddConfigPath(p.confPath)
	}

	altPath := os.Getenv(PathEnv)
	if altPath != "" {
		// If the user has overridden the path with an envvar, its the only path
		// we will consider
		if !dirExists(altPath) {
			return errors.Errorf("%s %s does not exist", PathEnv, altPath)
		}
		v.AddConfigPath(altPath)
	} else {
		v.AddConfigPath("./")
		if dirExists(OfficialPath) {
			v.AddConfigPath(OfficialPath)
		}
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	return nil
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

func TranslatePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(base, p)
}
