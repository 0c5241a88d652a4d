package seleniumkit

import (
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumkit/config"
)

// service is a locally running WebDriver server.
type service interface {
	Stop() error
}

// Replaced in tests.
var (
	newRemote = selenium.NewRemote

	startChromeDriver = func(path string, port int, opts ...selenium.ServiceOption) (service, error) {
		return selenium.NewChromeDriverService(path, port, opts...)
	}
	startGeckoDriver = func(path string, port int, opts ...selenium.ServiceOption) (service, error) {
		return selenium.NewGeckoDriverService(path, port, opts...)
	}
)

// endpoint returns the WebDriver URL for b's Type, starting a local driver
// service when the Type needs one. The returned service is nil otherwise.
func (b *Interface) endpoint() (string, service, error) {
	switch b.typ {
	case Grid:
		ip := b.cfg.String(config.GridIP, "")
		if ip == "" {
			return "", nil, fmt.Errorf("%s is not set", config.GridIP)
		}
		port, err := b.cfg.Int(config.GridPort, config.DefaultGridPort)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("http://%s:%d/wd/hub", ip, port), nil, nil

	case Sauce:
		user, key := b.cfg.String(config.SauceUser, ""), b.cfg.String(config.SauceKey, "")
		if user == "" || key == "" {
			return "", nil, fmt.Errorf("%s and %s must be set", config.SauceUser, config.SauceKey)
		}
		return sauceAddr(user, key), nil, nil

	case Chrome, Firefox:
		port, err := b.cfg.Int(config.DriverPort, config.DefaultDriverPort)
		if err != nil {
			return "", nil, err
		}
		opts := []selenium.ServiceOption{selenium.Output(logWriter(b.typ))}
		xvfb, err := b.cfg.Bool(config.BrowserXvfb, false)
		if err != nil {
			return "", nil, err
		}
		if xvfb {
			opts = append(opts, selenium.StartFrameBuffer())
		}

		if b.typ == Chrome {
			path := b.cfg.String(config.ChromeDriverPath, "chromedriver")
			svc, err := startChromeDriver(path, port, opts...)
			if err != nil {
				return "", nil, fmt.Errorf("starting %s on port %d: %w", path, port, err)
			}
			return fmt.Sprintf("http://localhost:%d/wd/hub", port), svc, nil
		}
		path := b.cfg.String(config.GeckoDriverPath, "geckodriver")
		svc, err := startGeckoDriver(path, port, opts...)
		if err != nil {
			return "", nil, fmt.Errorf("starting %s on port %d: %w", path, port, err)
		}
		return fmt.Sprintf("http://localhost:%d", port), svc, nil
	}
	return "", nil, fmt.Errorf("unknown browser type %q", b.typ)
}
