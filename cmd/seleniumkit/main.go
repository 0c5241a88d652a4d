// Command seleniumkit opens browser sessions and waits for page state from
// the command line.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
)

func main() {
	defer glog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seleniumkit:", err)
		glog.Flush()
		os.Exit(1)
	}
}
