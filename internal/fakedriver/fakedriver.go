// Package fakedriver provides an in-memory selenium.WebDriver for tests.
//
// Only the methods used by this module are implemented; calling any other
// method panics through the embedded nil interface. Errors mimic the messages
// returned by real drivers ("no such element: ...", "stale element reference:
// ...", "no such frame: ...") because callers classify them by text.
package fakedriver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/tebeka/selenium"
)

func key(by, value string) string { return by + "=" + value }

// Driver is a fake WebDriver session holding a static page of elements.
type Driver struct {
	selenium.WebDriver

	mu       sync.Mutex
	id       string
	url      string
	found    map[string][]*Element
	findErr  map[string]error
	frames   map[string]bool
	frame    interface{}
	status   selenium.Status
	quit     bool
	waits    int
	caps     selenium.Capabilities
	visitLog []string
}

var _ selenium.WebDriver = (*Driver)(nil)

// New returns a fake session with the given ID.
func New(id string) *Driver {
	return &Driver{
		id:      id,
		found:   make(map[string][]*Element),
		findErr: make(map[string]error),
		frames:  make(map[string]bool),
	}
}

// Add registers the elements returned when searching by (by, value). It
// replaces any elements previously registered for the same locator.
func (d *Driver) Add(by, value string, es ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.found[key(by, value)] = es
}

// Remove makes (by, value) match nothing.
func (d *Driver) Remove(by, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.found, key(by, value))
}

// Fail makes every search by (by, value) return err. A nil err clears it.
func (d *Driver) Fail(by, value string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.findErr, key(by, value))
		return
	}
	d.findErr[key(by, value)] = err
}

// AddFrame makes a frame with the given name or ID available.
func (d *Driver) AddFrame(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames[name] = true
}

// Frame returns the argument of the last successful SwitchFrame.
func (d *Driver) Frame() interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// SetStatus sets the value returned by Status.
func (d *Driver) SetStatus(s selenium.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = s
}

// SetCapabilities sets the value returned by Capabilities.
func (d *Driver) SetCapabilities(caps selenium.Capabilities) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.caps = caps
}

// Quitted reports whether Quit was called.
func (d *Driver) Quitted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quit
}

// Waits returns the number of calls to WaitWithTimeoutAndInterval.
func (d *Driver) Waits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.waits
}

// Visited returns the URLs passed to Get, in order.
func (d *Driver) Visited() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.visitLog...)
}

func (d *Driver) SessionID() string { return d.id }

func (d *Driver) Status() (*selenium.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.status
	return &s, nil
}

func (d *Driver) Capabilities() (selenium.Capabilities, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.caps, nil
}

func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return fmt.Errorf("invalid session id: session %s already deleted", d.id)
	}
	d.quit = true
	return nil
}

func (d *Driver) Get(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
	d.visitLog = append(d.visitLog, url)
	return nil
}

func (d *Driver) CurrentURL() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *Driver) FindElements(by, value string) ([]selenium.WebElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.findErr[key(by, value)]; err != nil {
		return nil, err
	}
	return webElements(d.found[key(by, value)]), nil
}

func (d *Driver) FindElement(by, value string) (selenium.WebElement, error) {
	wes, err := d.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(wes) == 0 {
		return nil, fmt.Errorf("no such element: Unable to locate element: {%q: %q}", by, value)
	}
	return wes[0], nil
}

func (d *Driver) SwitchFrame(frame interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch f := frame.(type) {
	case nil:
	case string:
		if f != "" && !d.frames[f] {
			return fmt.Errorf("no such frame: %q", f)
		}
	case *Element:
		if f.Stale() {
			return errStale
		}
		if tag, _ := f.TagName(); tag != "iframe" && tag != "frame" {
			return fmt.Errorf("no such frame: element is not a frame")
		}
	default:
		return fmt.Errorf("invalid argument: unsupported frame %T", frame)
	}
	d.frame = frame
	return nil
}

// WaitWithTimeoutAndInterval follows the driver's loop: evaluate, stop on
// error or success, give up once more than timeout has elapsed, otherwise
// sleep for interval.
func (d *Driver) WaitWithTimeoutAndInterval(condition selenium.Condition, timeout, interval time.Duration) error {
	d.mu.Lock()
	d.waits++
	d.mu.Unlock()

	start := time.Now()
	for {
		done, err := condition(d)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if elapsed := time.Since(start); elapsed > timeout {
			return fmt.Errorf("timeout after %v", elapsed)
		}
		time.Sleep(interval)
	}
}

func webElements(es []*Element) []selenium.WebElement {
	wes := make([]selenium.WebElement, len(es))
	for i, e := range es {
		wes[i] = e
	}
	return wes
}

// Element is a fake DOM element. Its state may be changed concurrently with
// a running wait.
type Element struct {
	selenium.WebElement

	mu        sync.Mutex
	tag       string
	text      string
	attrs     map[string]string
	displayed bool
	enabled   bool
	selected  bool
	stale     bool
	fault     error
	clicks    int
	typed     []string
	parent    *Element
	children  []*Element
	found     map[string][]*Element
}

var _ selenium.WebElement = (*Element)(nil)

// NewElement returns a displayed, enabled, unselected element.
func NewElement(tag, text string) *Element {
	return &Element{
		tag:       tag,
		text:      text,
		attrs:     make(map[string]string),
		displayed: true,
		enabled:   true,
		found:     make(map[string][]*Element),
	}
}

// NewSelect returns a <select> with one <option> per value; the option text
// is the value upper-cased.
func NewSelect(multiple bool, values ...string) *Element {
	s := NewElement("select", "")
	if multiple {
		s.attrs["multiple"] = "true"
	}
	for _, v := range values {
		o := NewElement("option", strings.ToUpper(v))
		o.attrs["value"] = v
		s.AddChild(o)
	}
	return s
}

// AddChild appends c to e's children.
func (e *Element) AddChild(c *Element) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c.parent = e
	e.children = append(e.children, c)
}

// Children returns e's children.
func (e *Element) Children() []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Element(nil), e.children...)
}

// AddFound registers descendants returned when searching from e by
// (by, value), for locators that are not computed from the children.
func (e *Element) AddFound(by, value string, es ...*Element) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.found[key(by, value)] = es
}

func (e *Element) SetDisplayed(v bool) { e.set(func() { e.displayed = v }) }
func (e *Element) SetEnabled(v bool)   { e.set(func() { e.enabled = v }) }
func (e *Element) SetSelected(v bool)  { e.set(func() { e.selected = v }) }
func (e *Element) SetText(v string)    { e.set(func() { e.text = v }) }
func (e *Element) SetStale(v bool)     { e.set(func() { e.stale = v }) }

// SetFault makes every read of the element fail with err; nil clears it.
func (e *Element) SetFault(err error) { e.set(func() { e.fault = err }) }

// SetAttribute sets an attribute; an empty value removes it.
func (e *Element) SetAttribute(name, value string) {
	e.set(func() {
		if value == "" {
			delete(e.attrs, name)
			return
		}
		e.attrs[name] = value
	})
}

func (e *Element) set(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f()
}

// Stale reports whether the element was detached from the page.
func (e *Element) Stale() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stale
}

// Clicks returns how many times the element was clicked.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Typed returns the strings sent with SendKeys.
func (e *Element) Typed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.typed...)
}

var errStale = errors.New("stale element reference: element is not attached to the page document")

// read runs f under the lock unless the element is stale or faulted.
func (e *Element) read(f func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return errStale
	}
	if e.fault != nil {
		return e.fault
	}
	f()
	return nil
}

func (e *Element) TagName() (string, error) {
	var v string
	err := e.read(func() { v = e.tag })
	return v, err
}

func (e *Element) Text() (string, error) {
	var v string
	err := e.read(func() { v = e.text })
	return v, err
}

func (e *Element) GetAttribute(name string) (string, error) {
	var (
		v  string
		ok bool
	)
	if err := e.read(func() { v, ok = e.attrs[name] }); err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("nil return value")
	}
	return v, nil
}

func (e *Element) IsDisplayed() (bool, error) {
	var v bool
	err := e.read(func() { v = e.displayed })
	return v, err
}

func (e *Element) IsEnabled() (bool, error) {
	var v bool
	err := e.read(func() { v = e.enabled })
	return v, err
}

func (e *Element) IsSelected() (bool, error) {
	var v bool
	err := e.read(func() { v = e.selected })
	return v, err
}

func (e *Element) Clear() error {
	return e.read(func() { e.typed = nil })
}

func (e *Element) SendKeys(keys string) error {
	return e.read(func() { e.typed = append(e.typed, keys) })
}

func (e *Element) MoveTo(xOffset, yOffset int) error {
	return e.read(func() {})
}

// Click counts the click. Clicking an <option> selects it, deselecting its
// siblings unless the parent is a multi-select, where it toggles instead.
func (e *Element) Click() error {
	if err := e.read(func() { e.clicks++ }); err != nil {
		return err
	}
	if e.tag != "option" || e.parent == nil {
		return nil
	}
	p := e.parent
	p.mu.Lock()
	_, multiple := p.attrs["multiple"]
	siblings := append([]*Element(nil), p.children...)
	p.mu.Unlock()

	if multiple {
		e.set(func() { e.selected = !e.selected })
		return nil
	}
	for _, s := range siblings {
		s.SetSelected(s == e)
	}
	return nil
}

var (
	normalizeSpaceExpr = regexp.MustCompile(`^\.//(\w+)\[normalize-space\(\.\) = "(.*)"\]$`)
	containsExpr       = regexp.MustCompile(`^\.//(\w+)\[contains\(\., "(.*)"\)\]$`)
	attrExpr           = regexp.MustCompile(`^\.//(\w+)\[@(\w+) = "(.*)"\]$`)
)

func unescape(s string) string { return strings.Replace(s, `\"`, `"`, -1) }

// FindElements searches e's children by tag name or by one of the XPath
// forms used for <option> lookups, then falls back to AddFound.
func (e *Element) FindElements(by, value string) ([]selenium.WebElement, error) {
	var match func(c *Element) bool
	switch by {
	case selenium.ByTagName:
		match = func(c *Element) bool { return c.tag == value }
	case selenium.ByXPATH:
		if m := normalizeSpaceExpr.FindStringSubmatch(value); m != nil {
			want := unescape(m[2])
			match = func(c *Element) bool {
				return c.tag == m[1] && strings.Join(strings.Fields(c.text), " ") == want
			}
		} else if m := containsExpr.FindStringSubmatch(value); m != nil {
			want := unescape(m[2])
			match = func(c *Element) bool { return c.tag == m[1] && strings.Contains(c.text, want) }
		} else if m := attrExpr.FindStringSubmatch(value); m != nil {
			want := unescape(m[3])
			match = func(c *Element) bool { return c.tag == m[1] && c.attrs[m[2]] == want }
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return nil, errStale
	}
	if match == nil {
		return webElements(e.found[key(by, value)]), nil
	}
	var es []*Element
	for _, c := range e.children {
		c.mu.Lock()
		ok := match(c)
		c.mu.Unlock()
		if ok {
			es = append(es, c)
		}
	}
	return webElements(es), nil
}

func (e *Element) FindElement(by, value string) (selenium.WebElement, error) {
	wes, err := e.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(wes) == 0 {
		return nil, fmt.Errorf("no such element: Unable to locate element: {%q: %q}", by, value)
	}
	return wes[0], nil
}
