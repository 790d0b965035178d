// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fmpapi is a thin async client over the provider's HTTP API.
// Every endpoint returns raw bytes; shape normalization (list vs.
// wrapper, adjClose vs close) happens at the call site, not here.
package fmpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const baseURL = "https://financialmodelingprep.com/api/v3"

// Client wraps resty with the provider's static API key and a request
// rate limiter, grounded on provider/polygon.go's rate.NewLimiter use.
type Client struct {
	http    *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

// New builds a Client rate-limited to requestsPerMinute.
func New(apiKey string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 300
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &Client{
		http:    resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// get performs a rate-limited GET against path with the given query
// params, returning the raw response body.
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := c.http.R().SetContext(ctx).SetQueryParam("apikey", c.apiKey)
	for k, v := range params {
		req.SetQueryParam(k, v)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("fmpapi: GET %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s returned %d", ErrInvalidStatusCode, path, resp.StatusCode())
	}
	return resp.Body(), nil
}
