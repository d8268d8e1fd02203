// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command lyla sends HTTP requests from the command line.
package main

import (
	"os"

	"github.com/gogama/lyla/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
