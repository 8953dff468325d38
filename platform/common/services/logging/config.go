/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"io"

	"github.com/hyperledger/fabric-lib-go/common/flogging"
)

type Config struct {
	// Format is the log record format specifier for the Logging instance. If the
	// spec is the string "json", log records will be formatted as JSON. Any
	// other string will be provided to the FormatEncoder.
	//
	// If Format is not provided, a default format that provides basic information will
	// be used.
	Format string
	// LogSpec determines the log levels that are enabled for the logging system.
	//
	// If LogSpec is not provided, loggers will be enabled at the INFO level.
	LogSpec string
	// Writer is the sink for encoded and formatted log records.
	//
	// If a Writer is not provided, os.Stderr will be used as the log sink.
	Writer io.Writer
}

func Init(c Config) {
	flogging.Init(flogging.Config{
		Format:  c.Format,
		LogSpec: c.LogSpec,
		Writer:  c.Writer,
	})
}

// ActivateSpec changes the active log spec, e.g. "info:peerweb.chaincode=debug".
func ActivateSpec(spec string) {
	flogging.ActivateSpec(spec)
}

// Spec returns the active log spec.
func Spec() string {
	return flogging.Global.Spec()
}
