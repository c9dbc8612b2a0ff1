// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package main

import (
	"github.com/sockmesh/sockmesh/sockmesh-dbg/cmd"
)

func main() {
	cmd.Execute()
}
