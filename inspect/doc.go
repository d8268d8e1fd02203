// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package inspect records the requests made through lyla instances, keyed
by correlation id, for debugging tools and tests.

	rec := inspect.NewRecorder(100)
	api := lyla.New(opts, nil).Extend(&lyla.Options{Hooks: rec.Hooks()})
	...
	for _, r := range rec.Records() {
		fmt.Println(r.ID, r.State, r.Method, r.URL, r.Status, r.Duration())
	}
	fmt.Println("p99", rec.Latency(0.99))
*/
package inspect
