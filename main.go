// SPDX-License-Identifier: MPL-2.0

package main

import cmd "portpack-cli/cmd/portpack"

func main() {
	cmd.Execute()
}
