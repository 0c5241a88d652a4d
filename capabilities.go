package seleniumkit

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/tebeka/selenium/log"
	"github.com/tebeka/selenium/sauce"

	"github.com/wanmail/seleniumkit/config"
)

var sauceAddr = sauce.Addr

// browserName returns the browser to request: the Type itself for local
// drivers, grid.browser otherwise.
func (b *Interface) browserName() string {
	switch b.typ {
	case Chrome, Firefox:
		return string(b.typ)
	}
	return strings.ToLower(b.cfg.String(config.GridBrowser, config.DefaultGridBrowser))
}

// capabilities builds the desired capabilities for a new session, labelled
// with name.
func (b *Interface) capabilities(name string) (selenium.Capabilities, error) {
	browser := b.browserName()
	caps := selenium.Capabilities{
		"browserName": browser,
		"name":        name,
	}
	if v := b.cfg.String(config.GridVersion, ""); v != "" {
		caps["version"] = v
	}
	if p := b.cfg.String(config.GridPlatform, ""); p != "" {
		caps["platform"] = p
	}

	headless, err := b.cfg.Bool(config.BrowserHeadless, false)
	if err != nil {
		return nil, err
	}
	binary := b.cfg.String(config.BrowserBinary, "")
	switch browser {
	case "chrome":
		c := chrome.Capabilities{Path: binary}
		if headless {
			c.Args = append(c.Args, "--headless", "--no-sandbox", "--disable-gpu")
		}
		caps.AddChrome(c)
	case "firefox":
		c := firefox.Capabilities{Binary: binary}
		if headless {
			c.Args = append(c.Args, "-headless")
		}
		caps.AddFirefox(c)
	}

	if lvl := b.cfg.String(config.BrowserLogLevel, ""); lvl != "" {
		level, err := logLevel(lvl)
		if err != nil {
			return nil, err
		}
		caps.SetLogLevel(log.Browser, level)
	}

	if b.typ == Sauce {
		platform := b.cfg.String(config.SaucePlatform, b.cfg.String(config.GridPlatform, ""))
		sc := sauce.Capabilities{
			Browser:  browser,
			Version:  b.cfg.String(config.GridVersion, ""),
			Platform: platform,
			TestName: name,
		}
		m, err := sc.ToMap()
		if err != nil {
			return nil, fmt.Errorf("building Sauce Labs capabilities: %w", err)
		}
		for k, v := range m {
			caps[k] = v
		}
	}
	return caps, nil
}

func logLevel(s string) (log.Level, error) {
	level := log.Level(strings.ToUpper(s))
	switch level {
	case log.Off, log.Severe, log.Warning, log.Info, log.Debug, log.All:
		return level, nil
	}
	return "", fmt.Errorf("%s: unknown log level %q", config.BrowserLogLevel, s)
}

func newSessionName() string {
	return "seleniumkit-" + uuid.NewString()
}
