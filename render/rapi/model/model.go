// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorType    string `json:"errorType"`
}

// StatusResponse is the body of a successful control request.
type StatusResponse struct {
	Status string `json:"status"`
}

// SizeRequest carries a surface or window size.
type SizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ModeRequest selects a render mode: "continuous" or "when-dirty".
type ModeRequest struct {
	Mode string `json:"mode"`
}
