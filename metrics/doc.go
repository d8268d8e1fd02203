// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package metrics exports Prometheus request metrics from lyla hooks.

	reg := prometheus.NewRegistry()
	c := metrics.New(reg, "api_client")
	api := lyla.New(opts, nil).Extend(&lyla.Options{Hooks: c.Hooks()})
*/
package metrics
