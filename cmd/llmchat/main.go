// Command llmchat is the terminal client. It builds the resilient
// completion client from the same configuration the daemon uses and
// streams one completion straight to stdout.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
