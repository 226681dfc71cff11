// Command hrcore resolves org charts from the roster table, manages the
// generation memo and serves the HTTP API.
package main

import "os"

var exitFunc = os.Exit

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exitFunc(1)
	}
}
