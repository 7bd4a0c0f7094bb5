// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"

	cmd "github.com/deskmenu/deskmenu/cmd/deskmenu"
)

func main() {
	os.Exit(cmd.Main())
}
