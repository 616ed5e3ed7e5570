// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package chooser selects a framebuffer configuration for the render thread.
package chooser

import (
	"errors"
	"fmt"

	"go.autosurface.dev/render/egl"
)

// ErrChooseConfig is returned when the device fails to enumerate configs.
var ErrChooseConfig = errors.New("ChooseConfigFailed")

// ErrNoConfigs is returned when the device reports no matching configs.
var ErrNoConfigs = errors.New("NoConfigsMatchConfigSpec")

// ErrNoConfigChosen is returned when no enumerated config passes selection.
var ErrNoConfigChosen = errors.New("NoConfigChosen")

// ComponentSizeChooser chooses a configuration with exactly the requested
// red, green, blue and alpha sizes and at least the requested depth and
// stencil sizes.
type ComponentSizeChooser struct {
	Red, Green, Blue, Alpha int32
	Depth, Stencil          int32

	// ContextVersion selects the renderable type added to the attribute
	// list. Only versions 2 and 3 add one.
	ContextVersion int
}

// NewComponentSizeChooser returns a chooser for GLES 2.
func NewComponentSizeChooser(red, green, blue, alpha, depth, stencil int32) *ComponentSizeChooser {
	return &ComponentSizeChooser{
		Red: red, Green: green, Blue: blue, Alpha: alpha,
		Depth: depth, Stencil: stencil,
		ContextVersion: 2,
	}
}

// NewSimpleChooser chooses an RGB888 configuration, with a 16 bit depth buffer
// when withDepthBuffer is set.
func NewSimpleChooser(withDepthBuffer bool) *ComponentSizeChooser {
	var depth int32
	if withDepthBuffer {
		depth = 16
	}
	return NewComponentSizeChooser(8, 8, 8, 0, depth, 0)
}

// SetContextVersion implements the version hook the renderer facade uses.
func (c *ComponentSizeChooser) SetContextVersion(version int) {
	c.ContextVersion = version
}

// Attribs returns the attribute list passed to the device.
func (c *ComponentSizeChooser) Attribs() []int32 {
	attribs := []int32{
		egl.RedSize, c.Red,
		egl.GreenSize, c.Green,
		egl.BlueSize, c.Blue,
		egl.AlphaSize, c.Alpha,
		egl.DepthSize, c.Depth,
		egl.StencilSize, c.Stencil,
	}
	switch c.ContextVersion {
	case 2:
		attribs = append(attribs, egl.RenderableType, egl.OpenGLES2Bit)
	case 3:
		attribs = append(attribs, egl.RenderableType, egl.OpenGLES3BitKHR)
	}
	return append(attribs, egl.None)
}

// ChooseConfig enumerates the configs matching Attribs and returns the first
// one that passes the exact color / minimum depth and stencil policy.
func (c *ComponentSizeChooser) ChooseConfig(api egl.API, display egl.Display) (egl.Config, error) {
	attribs := c.Attribs()
	n, ok := api.ChooseConfig(display, attribs, nil)
	if !ok {
		return egl.NoConfig, fmt.Errorf("%w: %s", ErrChooseConfig, egl.FormatError("eglChooseConfig", api.GetError()))
	}
	if n <= 0 {
		return egl.NoConfig, ErrNoConfigs
	}

	configs := make([]egl.Config, n)
	n, ok = api.ChooseConfig(display, attribs, configs)
	if !ok {
		return egl.NoConfig, fmt.Errorf("%w: %s", ErrChooseConfig, egl.FormatError("eglChooseConfig#2", api.GetError()))
	}
	if config, ok := c.choose(api, display, configs[:n]); ok {
		return config, nil
	}
	return egl.NoConfig, ErrNoConfigChosen
}

func (c *ComponentSizeChooser) choose(api egl.API, display egl.Display, configs []egl.Config) (egl.Config, bool) {
	for _, config := range configs {
		d := attrib(api, display, config, egl.DepthSize)
		s := attrib(api, display, config, egl.StencilSize)
		if d < c.Depth || s < c.Stencil {
			continue
		}
		r := attrib(api, display, config, egl.RedSize)
		g := attrib(api, display, config, egl.GreenSize)
		b := attrib(api, display, config, egl.BlueSize)
		a := attrib(api, display, config, egl.AlphaSize)
		if r == c.Red && g == c.Green && b == c.Blue && a == c.Alpha {
			return config, true
		}
	}
	return egl.NoConfig, false
}

func attrib(api egl.API, display egl.Display, config egl.Config, attribute int32) int32 {
	if v, ok := api.GetConfigAttrib(display, config, attribute); ok {
		return v
	}
	return 0
}
