// Command solgraph runs the static-analysis engine against a Solidity
// compiler combined-json AST bundle from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
