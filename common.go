package seleniumkit

import (
	"flag"
	"strings"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// SetDebug raises glog verbosity so that every wait attempt and predicate
// evaluation is logged, and turns on the WebDriver client's own request log.
func SetDebug(debug bool) {
	v := "0"
	if debug {
		v = "2"
	}
	if err := flag.Set("v", v); err != nil {
		glog.Warningf("seleniumkit: setting verbosity: %v", err)
	}
	selenium.SetDebug(debug)
}

// logWriter forwards the output of a local driver process to glog.
type logWriter string

func (w logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		glog.V(1).Infof("%s: %s", string(w), line)
	}
	return len(p), nil
}
