// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads lyla instance profiles from YAML or JSON files.
//
//	base_url: https://api.example.com/v1/
//	response_type: json
//	headers:
//	  Accept: application/json
//	timeout: 10s
//	method_timeouts:
//	  POST: 1m
//
// Load a profile and build an instance from it:
//
//	p, err := config.Load("api.yaml", "")
//	...
//	api, err := p.Instance(&http.Client{})
package config
