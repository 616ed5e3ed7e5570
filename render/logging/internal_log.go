// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// SetOutput configures logging output for standard loggers.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
	logrus.SetOutput(w)
}

// SetLogLevel parses logLevel and applies it, together with the internal
// formatter, to the standard logrus logger.
func SetLogLevel(logLevel string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q, valid levels are %v: %w", logLevel, logrus.AllLevels, err)
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&InternalFormatter{})
	return nil
}

// InternalFormatter formats entries as
// "<RFC3339Nano time> [level] message key=value ...", fields sorted by key.
type InternalFormatter struct{}

// Format implements logrus.Formatter.
func (f *InternalFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	if entry.Buffer != nil {
		b = entry.Buffer
	}

	b.WriteString(entry.Time.Format(time.RFC3339Nano))
	fmt.Fprintf(b, " [%s] %s", entry.Level.String(), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
