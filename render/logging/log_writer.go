// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogWriter turns a byte stream into one log entry per line. It is used as the
// sink of GL call logging.
type LogWriter struct {
	mu     sync.Mutex
	entry  *logrus.Entry
	level  logrus.Level
	buffer bytes.Buffer
}

// NewLogWriter returns a writer logging complete lines to entry at level.
func NewLogWriter(entry *logrus.Entry, level logrus.Level) *LogWriter {
	return &LogWriter{entry: entry, level: level}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range p {
		if c == '\n' {
			w.flushLocked()
			continue
		}
		w.buffer.WriteByte(c)
	}
	return len(p), nil
}

// Flush logs any pending partial line.
func (w *LogWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flushLocked()
}

// Close flushes the writer.
func (w *LogWriter) Close() error {
	w.Flush()
	return nil
}

func (w *LogWriter) flushLocked() {
	if w.buffer.Len() > 0 {
		w.entry.Log(w.level, w.buffer.String())
		w.buffer.Reset()
	}
}
