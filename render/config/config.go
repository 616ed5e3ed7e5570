// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the simulator settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"go.autosurface.dev/render/core"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("InvalidConfig")

// Config holds the settings of a simulated host surface and its renderer.
type Config struct {
	LogLevel               string `toml:"log_level"`
	Address                string `toml:"address"`
	Width                  int    `toml:"width"`
	Height                 int    `toml:"height"`
	RenderMode             string `toml:"render_mode"`
	ContextVersion         int    `toml:"context_version"`
	PreserveContextOnPause bool   `toml:"preserve_context_on_pause"`
	Buffer                 Buffer `toml:"buffer"`
	Debug                  Debug  `toml:"debug"`
}

// Buffer is the requested framebuffer format.
type Buffer struct {
	Red     int32 `toml:"red"`
	Green   int32 `toml:"green"`
	Blue    int32 `toml:"blue"`
	Alpha   int32 `toml:"alpha"`
	Depth   int32 `toml:"depth"`
	Stencil int32 `toml:"stencil"`
}

type Debug struct {
	CheckGLError bool `toml:"check_gl_error"`
	LogGLCalls   bool `toml:"log_gl_calls"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		LogLevel:       "info",
		Address:        "127.0.0.1:8080",
		Width:          800,
		Height:         480,
		RenderMode:     core.Continuous.String(),
		ContextVersion: 3,
		Buffer:         Buffer{Red: 8, Green: 8, Blue: 8, Alpha: 0, Depth: 16, Stencil: 0},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Write stores c at path.
func (c Config) Write(path string) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return err
	}
	return os.WriteFile(path, buffer.Bytes(), 0644)
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: surface size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if _, err := core.ParseRenderMode(c.RenderMode); err != nil {
		return fmt.Errorf("%w: render_mode %q", ErrInvalidConfig, c.RenderMode)
	}
	if c.ContextVersion != 2 && c.ContextVersion != 3 {
		return fmt.Errorf("%w: context_version %d", ErrInvalidConfig, c.ContextVersion)
	}
	b := c.Buffer
	for _, v := range []int32{b.Red, b.Green, b.Blue, b.Alpha, b.Depth, b.Stencil} {
		if v < 0 {
			return fmt.Errorf("%w: negative buffer size", ErrInvalidConfig)
		}
	}
	return nil
}

// Mode returns the parsed render mode. c must be valid.
func (c Config) Mode() core.RenderMode {
	mode, _ := core.ParseRenderMode(c.RenderMode)
	return mode
}

// DebugFlags returns the GL debug flags selected by c.
func (c Config) DebugFlags() core.DebugFlags {
	var flags core.DebugFlags
	if c.Debug.CheckGLError {
		flags |= core.DebugCheckGLError
	}
	if c.Debug.LogGLCalls {
		flags |= core.DebugLogGLCalls
	}
	return flags
}
