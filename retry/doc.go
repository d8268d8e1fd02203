// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry re-invokes the lyla request pipeline when a call fails
// in a way worth trying again.
//
// The lyla core never retries. A Requester from this package wraps any
// lyla.Requester and, after each call, asks a Policy whether to make
// another attempt and how long to wait first. Every attempt is a full,
// independent run of the pipeline with its own correlation id, so hooks
// observe each attempt separately.
//
// A Policy is assembled from a decision-maker, Decider, and a wait time
// calculator, Waiter:
//
//	decider := retry.Times(3).
//		And(retry.Before(5 * time.Second)).
//		And(retry.StatusCode(500).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//	api := lyla.Inflate(retry.New(lyla.New(opts, nil), retry.NewPolicy(decider, waiter)))
//	resp, err := api.Get(ctx, "users/42", nil)
//
// HookError failures are never retried by the built-in deciders.
package retry
