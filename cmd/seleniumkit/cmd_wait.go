package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/wanmail/seleniumkit/config"
	"github.com/wanmail/seleniumkit/element"
	"github.com/wanmail/seleniumkit/hook"
	"github.com/wanmail/seleniumkit/pause"
)

type waitOptions struct {
	text    string
	tag     string
	timeout time.Duration
}

// waitFunc runs one wait and describes its result.
type waitFunc func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error)

func found(c element.Control, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", c), nil
}

var conditions = map[string]waitFunc{
	"visible": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		return found(p.Visible(h, o.tag, o.timeout))
	},
	"present": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		return found(p.Present(h, o.tag, o.timeout))
	},
	"clickable": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		return found(p.Clickable(h, o.tag, o.timeout))
	},
	"selected": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		return found(p.Selected(h, o.tag, o.timeout))
	},
	"unselected": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		return found(p.Unselected(h, o.tag, o.timeout))
	},
	"invisible": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		var err error
		if o.text != "" {
			_, err = p.InvisibleWithText(h, o.text, o.timeout)
		} else {
			_, err = p.Invisible(h, o.timeout)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s invisible", h), nil
	},
	"text": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		if _, err := p.TextPresent(h, o.text, o.timeout); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s contains %q", h, o.text), nil
	},
	"value": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		if _, err := p.TextPresentInValue(h, o.text, o.timeout); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s value contains %q", h, o.text), nil
	},
	"frame": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		if _, err := p.FrameAvailable(h, o.timeout); err != nil {
			return "", err
		}
		return fmt.Sprintf("switched to frame %s", h), nil
	},
	"stale": func(p *pause.Pauser, h hook.Hook, o waitOptions) (string, error) {
		start := time.Now()
		c, err := p.Present(h, "", o.timeout)
		if err != nil {
			return "", err
		}
		rest := o.timeout - time.Since(start)
		if rest < 0 {
			rest = 0
		}
		if _, err := p.Staleness(c, rest); err != nil {
			return "", err
		}
		return fmt.Sprintf("%v detached", c), nil
	},
}

func conditionNames() []string {
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runWait runs the named condition on p.
func runWait(p *pause.Pauser, condition string, h hook.Hook, o waitOptions) (string, error) {
	condition = strings.ToLower(condition)
	f, ok := conditions[condition]
	if !ok {
		return "", fmt.Errorf("unknown condition %q (want one of %s)", condition, strings.Join(conditionNames(), ", "))
	}
	if (condition == "text" || condition == "value") && o.text == "" {
		return "", fmt.Errorf("condition %q needs --text", condition)
	}
	return f(p, h, o)
}

// newWaitCmd creates the "seleniumkit wait" subcommand.
func newWaitCmd() *cobra.Command {
	var (
		flags     sessionFlags
		url       string
		hooksPath string
		o         waitOptions
	)
	cmd := &cobra.Command{
		Use:   "wait <condition> <hook>",
		Short: "Open a session and wait for an element to reach a state",
		Long: "Open a session, optionally navigate to --url, and wait for the element named by\n" +
			"<hook> (strategy=value, or a name from the hooks file) to meet <condition>.\n" +
			"Conditions: " + strings.Join(conditionNames(), ", ") + ".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, cfg, err := flags.open()
			if err != nil {
				return fmt.Errorf("wait: %w", err)
			}
			if _, ok := conditions[strings.ToLower(args[0])]; !ok {
				return fmt.Errorf("wait: unknown condition %q (want one of %s)", args[0], strings.Join(conditionNames(), ", "))
			}
			if hooksPath == "" {
				hooksPath = cfg.String(config.HooksFile, "")
			}
			h, err := resolveHook(args[1], hooksPath)
			if err != nil {
				return fmt.Errorf("wait: %w", err)
			}
			if !cmd.Flags().Changed("timeout") {
				if o.timeout, err = b.Timeout(); err != nil {
					return fmt.Errorf("wait: %w", err)
				}
			}

			if err := b.Start(); err != nil {
				return fmt.Errorf("wait: %w", err)
			}
			defer func() {
				if err := b.Stop(); err != nil {
					glog.Warningf("wait: %v", err)
				}
			}()
			if url != "" {
				if err := b.Go(url); err != nil {
					return fmt.Errorf("wait: %w", err)
				}
			}

			start := time.Now()
			msg, err := runWait(b.Wait(), args[0], h, o)
			if err != nil {
				return fmt.Errorf("wait: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s after %v\n", msg, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&url, "url", "", "page to open before waiting")
	cmd.Flags().StringVar(&o.text, "text", "", "text for the text, value and invisible conditions")
	cmd.Flags().StringVar(&o.tag, "tag", "", "element type of the result; select yields a dropdown")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "total wait; 0 makes a single attempt; defaults to pause.timeout")
	cmd.Flags().StringVar(&hooksPath, "hooks", "", "hooks file; defaults to hooks.file")
	return cmd
}
