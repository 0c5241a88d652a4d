package seleniumkit

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumkit/config"
	"github.com/wanmail/seleniumkit/element"
	"github.com/wanmail/seleniumkit/hook"
	"github.com/wanmail/seleniumkit/pause"
)

// Type selects where a session is opened.
type Type string

// The supported session types.
const (
	Chrome  Type = "chrome"
	Firefox Type = "firefox"
	Grid    Type = "grid"
	Sauce   Type = "sauce"
)

// ParseType returns the Type named by s.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Chrome, Firefox, Grid, Sauce:
		return t, nil
	}
	return "", fmt.Errorf("unknown browser type %q (want chrome, firefox, grid or sauce)", s)
}

var (
	// ErrStarted is returned by Start on an Interface with an open session.
	ErrStarted = errors.New("seleniumkit: session already started")
	// ErrNotStarted is returned by operations that need an open session.
	ErrNotStarted = errors.New("seleniumkit: session not started")
)

// Interface owns at most one WebDriver session at a time. It is safe for
// concurrent use, though a WebDriver session itself serves one command at a
// time.
type Interface struct {
	cfg *config.Config
	typ Type

	mu     sync.Mutex
	wd     selenium.WebDriver
	svc    service
	pauser *pause.Pauser
	name   string
}

// New returns an Interface of the given Type. No session is opened until
// Start is called.
func New(cfg *config.Config, typ Type) *Interface {
	return &Interface{cfg: cfg, typ: typ}
}

// Type returns where b opens sessions.
func (b *Interface) Type() Type { return b.typ }

// Start opens a session.
func (b *Interface) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wd != nil {
		return ErrStarted
	}

	name := newSessionName()
	caps, err := b.capabilities(name)
	if err != nil {
		return err
	}
	polling, err := b.cfg.Duration(config.PauseInterval, pause.DefaultPollingInterval)
	if err != nil {
		return err
	}
	probe, err := b.cfg.Duration(config.PauseProbe, pause.DefaultProbeInterval)
	if err != nil {
		return err
	}

	addr, svc, err := b.endpoint()
	if err != nil {
		return err
	}
	wd, err := newRemote(caps, addr)
	if err != nil {
		stopService(svc)
		return fmt.Errorf("opening %s session at %s: %w", b.typ, addr, err)
	}
	if err := b.checkVersion(wd); err != nil {
		if qerr := wd.Quit(); qerr != nil {
			glog.Warningf("seleniumkit: quitting session %s: %v", wd.SessionID(), qerr)
		}
		stopService(svc)
		return err
	}
	p, err := pause.New(wd, pause.PollingInterval(polling), pause.ProbeInterval(probe))
	if err != nil {
		if qerr := wd.Quit(); qerr != nil {
			glog.Warningf("seleniumkit: quitting session %s: %v", wd.SessionID(), qerr)
		}
		stopService(svc)
		return err
	}

	b.wd, b.svc, b.pauser, b.name = wd, svc, p, name
	glog.Infof("seleniumkit: started %s session %s (%s) at %s", b.typ, wd.SessionID(), name, addr)
	return nil
}

func stopService(svc service) {
	if svc == nil {
		return
	}
	if err := svc.Stop(); err != nil {
		glog.Warningf("seleniumkit: stopping driver service: %v", err)
	}
}

// checkVersion rejects servers older than grid.min_selenium, when set.
func (b *Interface) checkVersion(wd selenium.WebDriver) error {
	minVersion := b.cfg.String(config.GridMinVersion, "")
	if minVersion == "" {
		return nil
	}
	want, err := semver.ParseTolerant(minVersion)
	if err != nil {
		return fmt.Errorf("%s: %w", config.GridMinVersion, err)
	}
	status, err := wd.Status()
	if err != nil {
		return fmt.Errorf("reading server status: %w", err)
	}
	if status.Build.Version == "" {
		return fmt.Errorf("server did not report a version, want at least %s", want)
	}
	got, err := semver.ParseTolerant(status.Build.Version)
	if err != nil {
		return fmt.Errorf("parsing server version %q: %w", status.Build.Version, err)
	}
	if got.LT(want) {
		return fmt.Errorf("server version %s is older than %s", got, want)
	}
	return nil
}

// Stop quits the session and stops any local driver service. Stopping an
// Interface without a session does nothing.
func (b *Interface) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wd == nil {
		return nil
	}
	id := b.wd.SessionID()
	var errs []error
	if err := b.wd.Quit(); err != nil {
		errs = append(errs, fmt.Errorf("quitting session %s: %w", id, err))
	}
	if b.svc != nil {
		if err := b.svc.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping driver service: %w", err))
		}
	}
	b.wd, b.svc, b.pauser, b.name = nil, nil, nil, ""
	glog.Infof("seleniumkit: stopped %s session %s", b.typ, id)
	return errors.Join(errs...)
}

// Restart stops the current session, if any, and opens a new one.
func (b *Interface) Restart() error {
	if err := b.Stop(); err != nil {
		glog.Warningf("seleniumkit: restart: %v", err)
	}
	return b.Start()
}

func (b *Interface) driver() (selenium.WebDriver, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wd == nil {
		return nil, ErrNotStarted
	}
	return b.wd, nil
}

// Driver returns the session, or nil when none is open.
func (b *Interface) Driver() selenium.WebDriver {
	wd, _ := b.driver()
	return wd
}

// Name returns the label sent to the server with the session capabilities.
func (b *Interface) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.name
}

// Go navigates to url.
func (b *Interface) Go(url string) error {
	wd, err := b.driver()
	if err != nil {
		return err
	}
	glog.V(1).Infof("seleniumkit: navigating to %s", url)
	return wd.Get(url)
}

// Pause sleeps for d.
func (b *Interface) Pause(d time.Duration) {
	time.Sleep(d)
}

// Capabilities returns the capabilities the server granted the session.
func (b *Interface) Capabilities() (selenium.Capabilities, error) {
	wd, err := b.driver()
	if err != nil {
		return nil, err
	}
	return wd.Capabilities()
}

// Status returns the server status.
func (b *Interface) Status() (*selenium.Status, error) {
	wd, err := b.driver()
	if err != nil {
		return nil, err
	}
	return wd.Status()
}

// Wait returns the Pauser bound to the session, or nil when none is open.
func (b *Interface) Wait() *pause.Pauser {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pauser
}

// Timeout returns the default wait timeout, pause.timeout.
func (b *Interface) Timeout() (time.Duration, error) {
	return b.cfg.Duration(config.PauseTimeout, config.DefaultPauseTimeout)
}

// Element returns the first element matching h, converted by its tag name.
func (b *Interface) Element(h hook.Hook) (element.Control, error) {
	wd, err := b.driver()
	if err != nil {
		return nil, err
	}
	by, value := h.By()
	we, err := wd.FindElement(by, value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}
	return element.Convert(h, 0, wd, we, "")
}

// Elements returns every element matching h, each converted by its tag name.
func (b *Interface) Elements(h hook.Hook) ([]element.Control, error) {
	wd, err := b.driver()
	if err != nil {
		return nil, err
	}
	by, value := h.By()
	wes, err := wd.FindElements(by, value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}
	cs := make([]element.Control, 0, len(wes))
	for i, we := range wes {
		c, err := element.Convert(h, i, wd, we, "")
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, nil
}
