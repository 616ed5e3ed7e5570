// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.autosurface.dev/render/core"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())
	assert.Equal(t, core.Continuous, c.Mode())
	assert.Equal(t, core.DebugFlags(0), c.DebugFlags())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
width = 1024
render_mode = "when-dirty"
preserve_context_on_pause = true

[buffer]
depth = 24
stencil = 8

[debug]
log_gl_calls = true
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, c.Width)
	assert.Equal(t, 480, c.Height)
	assert.Equal(t, core.WhenDirty, c.Mode())
	assert.True(t, c.PreserveContextOnPause)
	assert.Equal(t, Buffer{Red: 8, Green: 8, Blue: 8, Depth: 24, Stencil: 8}, c.Buffer)
	assert.Equal(t, core.DebugLogGLCalls, c.DebugFlags())
}

func TestLoadRejectsInvalid(t *testing.T) {
	type test struct {
		content string
	}

	var tests = []test{
		{`width = 0`},
		{`render_mode = "sometimes"`},
		{`context_version = 1`},
		{"[buffer]\ndepth = -1"},
	}

	for _, tt := range tests {
		_, err := Load(writeFile(t, tt.content))
		assert.ErrorIs(t, err, ErrInvalidConfig, tt.content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := Default()
	c.Debug.CheckGLError = true
	require.NoError(t, c.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}
