// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.autosurface.dev/render/core"
	"go.autosurface.dev/render/core/statejson"
	"go.autosurface.dev/render/egl"
	"go.autosurface.dev/render/egl/softegl"
	"go.autosurface.dev/render/host"
	"go.autosurface.dev/render/rapi/model"
	"go.autosurface.dev/render/surfacerenderer"
	"go.autosurface.dev/render/testdata/mockrenderer"
)

var red = color.RGBA{R: 0xff, A: 0xff}

type flowTest struct {
	rec    *mockrenderer.Recorder
	sim    *host.Simulator
	router http.Handler
}

func newFlowTest(t *testing.T) *flowTest {
	rec := &mockrenderer.Recorder{}
	rec.SetOnDraw(func(gl egl.GL) {
		gl.(softegl.Canvas).Clear(red)
	})
	controller := host.NewController(softegl.New(), 2, core.WhenDirty,
		surfacerenderer.WithRenderer(rec),
		surfacerenderer.WithThreadManager(core.NewThreadManager()))
	sim := host.NewSimulator(controller)
	t.Cleanup(func() { _ = sim.Detach() })
	return &flowTest{rec: rec, sim: sim, router: NewRouter(sim)}
}

// Make a test request
func makeTestRequest(t *testing.T, router http.Handler, request *http.Request) *httptest.ResponseRecorder {
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)
	t.Logf("test(%v %v) = %v", request.Method, request.URL, responseRecorder.Code)
	return responseRecorder
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	request := httptest.NewRequest(method, target, bytes.NewReader(data))
	request.Header.Set("Content-Type", "application/json")
	return request
}

// Verify response error type
func assertResponseErrorType(t *testing.T, expectedErrorType string, response *httptest.ResponseRecorder) {
	errResp := model.ErrorResponse{}
	err := json.Unmarshal(response.Body.Bytes(), &errResp)
	assert.Nil(t, err)
	assert.Equal(t, expectedErrorType, errResp.ErrorType)
}

func describe(t *testing.T, router http.Handler) statejson.InternalStateDescription {
	responseRecorder := makeTestRequest(t, router, httptest.NewRequest("GET", "/state", nil))
	require.Equal(t, http.StatusOK, responseRecorder.Code)
	var state statejson.InternalStateDescription
	require.NoError(t, json.Unmarshal(responseRecorder.Body.Bytes(), &state))
	return state
}

func TestPing(t *testing.T) {
	flow := newFlowTest(t)
	responseRecorder := makeTestRequest(t, flow.router, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, responseRecorder.Code)
	assert.Equal(t, "pong", responseRecorder.Body.String())
}

func TestRequestsWithoutSurface(t *testing.T) {
	flow := newFlowTest(t)

	var tests = []*http.Request{
		httptest.NewRequest("GET", "/state", nil),
		httptest.NewRequest("POST", "/render", nil),
		httptest.NewRequest("POST", "/pause", nil),
		httptest.NewRequest("POST", "/resume", nil),
		jsonRequest("PUT", "/mode", model.ModeRequest{Mode: "continuous"}),
		jsonRequest("PUT", "/surface/size", model.SizeRequest{Width: 10, Height: 10}),
		httptest.NewRequest("DELETE", "/surface", nil),
		httptest.NewRequest("GET", "/surface/frame.png", nil),
	}
	for _, request := range tests {
		responseRecorder := makeTestRequest(t, flow.router, request)
		assert.Equal(t, http.StatusNotFound, responseRecorder.Code, request.URL.String())
		assertResponseErrorType(t, "Surface.NotAvailable", responseRecorder)
	}
}

func TestSurfaceFlow(t *testing.T) {
	flow := newFlowTest(t)

	responseRecorder := makeTestRequest(t, flow.router, jsonRequest("POST", "/surface", model.SizeRequest{Width: 32, Height: 16}))
	require.Equal(t, http.StatusCreated, responseRecorder.Code)
	assert.JSONEq(t, `{"status":"OK"}`, responseRecorder.Body.String())

	require.Eventually(t, func() bool {
		frame, err := flow.sim.Frame()
		return err == nil && frame.(*image.RGBA).RGBAAt(5, 5) == red
	}, time.Second, time.Millisecond)

	state := describe(t, flow.router)
	assert.Equal(t, "when-dirty", state.Thread.RenderMode)
	assert.Equal(t, 32, state.Thread.Width)
	assert.True(t, state.Thread.HaveContext)

	responseRecorder = makeTestRequest(t, flow.router, httptest.NewRequest("GET", "/surface/frame.png", nil))
	require.Equal(t, http.StatusOK, responseRecorder.Code)
	assert.Equal(t, "image/png", responseRecorder.Header().Get("Content-Type"))
	frame, err := png.Decode(responseRecorder.Body)
	require.NoError(t, err)
	r, g, b, a := frame.At(5, 5).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})

	draws := flow.rec.Count(mockrenderer.Draw)
	responseRecorder = makeTestRequest(t, flow.router, httptest.NewRequest("POST", "/render", nil))
	assert.Equal(t, http.StatusAccepted, responseRecorder.Code)
	require.Eventually(t, func() bool { return flow.rec.Count(mockrenderer.Draw) > draws }, time.Second, time.Millisecond)

	responseRecorder = makeTestRequest(t, flow.router, jsonRequest("PUT", "/surface/size", model.SizeRequest{Width: 8, Height: 4}))
	require.Equal(t, http.StatusOK, responseRecorder.Code)
	assert.Equal(t, 8, describe(t, flow.router).Thread.Width)

	responseRecorder = makeTestRequest(t, flow.router, httptest.NewRequest("DELETE", "/surface", nil))
	assert.Equal(t, http.StatusOK, responseRecorder.Code)
	assert.Nil(t, flow.sim.ActiveRenderer())
}

func TestPauseResume(t *testing.T) {
	flow := newFlowTest(t)
	require.NoError(t, flow.sim.Attach(10, 10))

	responseRecorder := makeTestRequest(t, flow.router, httptest.NewRequest("POST", "/pause", nil))
	require.Equal(t, http.StatusOK, responseRecorder.Code)
	state := describe(t, flow.router)
	assert.True(t, state.Thread.Paused)
	assert.Equal(t, string(core.Paused), state.Thread.State.Name)

	responseRecorder = makeTestRequest(t, flow.router, httptest.NewRequest("POST", "/resume", nil))
	require.Equal(t, http.StatusOK, responseRecorder.Code)
	assert.False(t, describe(t, flow.router).Thread.Paused)
}

func TestSetRenderMode(t *testing.T) {
	flow := newFlowTest(t)
	require.NoError(t, flow.sim.Attach(10, 10))

	responseRecorder := makeTestRequest(t, flow.router, jsonRequest("PUT", "/mode", model.ModeRequest{Mode: "continuous"}))
	require.Equal(t, http.StatusOK, responseRecorder.Code)
	assert.Equal(t, core.Continuous, flow.sim.ActiveRenderer().RenderMode())

	responseRecorder = makeTestRequest(t, flow.router, jsonRequest("PUT", "/mode", model.ModeRequest{Mode: "sometimes"}))
	assert.Equal(t, http.StatusBadRequest, responseRecorder.Code)
	assertResponseErrorType(t, "RenderMode.Invalid", responseRecorder)
}

func TestInvalidRequests(t *testing.T) {
	flow := newFlowTest(t)

	var tests = []*http.Request{
		jsonRequest("POST", "/surface", model.SizeRequest{Width: 0, Height: 10}),
		jsonRequest("PUT", "/surface/size", model.SizeRequest{Width: 10, Height: -1}),
		httptest.NewRequest("POST", "/surface", bytes.NewReader([]byte("{"))),
		httptest.NewRequest("PUT", "/mode", bytes.NewReader([]byte("not json"))),
	}
	for _, request := range tests {
		responseRecorder := makeTestRequest(t, flow.router, request)
		assert.Equal(t, http.StatusBadRequest, responseRecorder.Code, request.URL.String())
		assertResponseErrorType(t, "Request.Invalid", responseRecorder)
	}
}

// TestAcceptXML tests that error responses are rendered as JSON
// regardless of the value provided in "Accept" header.
func TestAcceptXML(t *testing.T) {
	flow := newFlowTest(t)
	request := httptest.NewRequest("POST", "/render", nil)
	request.Header.Add("Accept", "application/xml")
	responseRecorder := makeTestRequest(t, flow.router, request)
	assert.Equal(t, http.StatusNotFound, responseRecorder.Code)
	assert.JSONEq(t, `{"errorMessage":"no surface attached","errorType":"Surface.NotAvailable"}`, responseRecorder.Body.String())
}
