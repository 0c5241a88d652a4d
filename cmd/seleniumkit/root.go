package main

import (
	"flag"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumkit"
	"github.com/wanmail/seleniumkit/config"
	"github.com/wanmail/seleniumkit/pause"
)

// browser is the part of *seleniumkit.Interface the commands use.
type browser interface {
	Start() error
	Stop() error
	Go(url string) error
	Wait() *pause.Pauser
	Timeout() (time.Duration, error)
	Status() (*selenium.Status, error)
	Name() string
}

// sessionFlags are shared by the commands that open a browser session.
type sessionFlags struct {
	configPath string
	typ        string
	debug      bool
}

func (f *sessionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "key=value settings file")
	fs.StringVar(&f.typ, "type", string(seleniumkit.Grid), "session type: chrome, firefox, grid or sauce")
	fs.BoolVar(&f.debug, "debug", false, "log every wait attempt and driver request")
}

// open loads the settings and returns an unstarted session.
func (f *sessionFlags) open() (browser, *config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	typ, err := seleniumkit.ParseType(f.typ)
	if err != nil {
		return nil, nil, err
	}
	if f.debug {
		seleniumkit.SetDebug(true)
	}
	return newBrowser(cfg, typ), cfg, nil
}

// Replaced in tests.
var newBrowser = func(cfg *config.Config, typ seleniumkit.Type) browser {
	return seleniumkit.New(cfg, typ)
}

// newRootCmd creates the root seleniumkit command with all subcommands
// attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seleniumkit",
		Short:         "Drive a browser through Selenium WebDriver",
		Long:          "seleniumkit opens WebDriver sessions on a grid, a local driver or Sauce Labs,\nand waits for elements to reach an expected state.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			// glog reads its flags from the standard flag set.
			return flag.CommandLine.Parse(nil)
		},
	}
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.AddCommand(
		newHooksCmd(),
		newWaitCmd(),
		newStatusCmd(),
	)
	return cmd
}
