// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient categorizes the causes of failed transport calls,
// which lyla surfaces as NO_RESPONSE errors.
//
// Use Categorize to tell a timeout apart from a cancelled request, a
// refused or reset connection, or a failed DNS lookup, for example in an
// OnResponseError hook that decides whether a failure is worth reporting.
package transient
