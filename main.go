// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "pyforge/cmd/pyforge"
)

func main() {
	cmd.Execute()
}
