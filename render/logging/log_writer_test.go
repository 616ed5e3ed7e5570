// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWriterSplitsLines(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	w := NewLogWriter(logrus.NewEntry(logger), logrus.DebugLevel)

	fmt.Fprint(w, "glClear(white);\nglFill")
	fmt.Fprint(w, "Polygon(3 points);\n\n")
	fmt.Fprint(w, "glSize()")

	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, "glClear(white);", hook.AllEntries()[0].Message)
	assert.Equal(t, "glFillPolygon(3 points);", hook.AllEntries()[1].Message)
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)

	require.NoError(t, w.Close())
	require.Len(t, hook.AllEntries(), 3)
	assert.Equal(t, "glSize()", hook.LastEntry().Message)
}
