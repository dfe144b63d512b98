// Command consulkv is a small command-line client for the Consul KV
// store built on the consulkv library.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
