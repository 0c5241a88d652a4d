package pause

import (
	"fmt"
	"time"

	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumkit/element"
	"github.com/wanmail/seleniumkit/hook"
)

// Option configures a Pauser.
type Option func(*Pauser) error

// PollingInterval sets the longest a single blocking attempt may take.
func PollingInterval(d time.Duration) Option {
	return func(p *Pauser) error {
		if d <= 0 {
			return fmt.Errorf("polling interval must be positive, got %v", d)
		}
		p.polling = d
		return nil
	}
}

// ProbeInterval sets how often the predicate is re-evaluated within an
// attempt. It must be positive and is capped at half the attempt length.
func ProbeInterval(d time.Duration) Option {
	return func(p *Pauser) error {
		if d <= 0 {
			return fmt.Errorf("probe interval must be positive, got %v", d)
		}
		p.probe = d
		return nil
	}
}

// Pauser waits on the state of one WebDriver session. It is immutable once
// created.
type Pauser struct {
	wd      selenium.WebDriver
	polling time.Duration
	probe   time.Duration
}

// New returns a Pauser for wd.
func New(wd selenium.WebDriver, opts ...Option) (*Pauser, error) {
	p := &Pauser{
		wd:      wd,
		polling: DefaultPollingInterval,
		probe:   DefaultProbeInterval,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Driver returns the session the Pauser waits on.
func (p *Pauser) Driver() selenium.WebDriver { return p.wd }

// PollingInterval returns the longest a single attempt may take.
func (p *Pauser) PollingInterval() time.Duration { return p.polling }

func (p *Pauser) control(h hook.Hook, tag string, pred Predicate[selenium.WebElement], timeout time.Duration) (element.Control, error) {
	we, err := Until(p, pred, timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}
	return element.Convert(h, 0, p.wd, we, tag)
}

func (p *Pauser) same(c element.Control, pred Predicate[selenium.WebElement], timeout time.Duration) (element.Control, error) {
	if _, err := Until(p, pred, timeout); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Hook(), err)
	}
	return c, nil
}

// Visible waits until the element matching h is present and displayed. tag
// selects the returned Control type; see element.Convert.
func (p *Pauser) Visible(h hook.Hook, tag string, timeout time.Duration) (element.Control, error) {
	return p.control(h, tag, VisibilityOfLocated(h), timeout)
}

// VisibleElement waits until c is displayed.
func (p *Pauser) VisibleElement(c element.Control, timeout time.Duration) (element.Control, error) {
	return p.same(c, VisibilityOf(c.WebElement()), timeout)
}

// Invisible waits until no displayed element matches h.
func (p *Pauser) Invisible(h hook.Hook, timeout time.Duration) (bool, error) {
	return Until(p, InvisibilityOfLocated(h), timeout)
}

// InvisibleWithText waits until no element matching h shows text.
func (p *Pauser) InvisibleWithText(h hook.Hook, text string, timeout time.Duration) (bool, error) {
	return Until(p, InvisibilityOfLocatedWithText(h, text), timeout)
}

// Present waits until an element matching h is in the DOM.
func (p *Pauser) Present(h hook.Hook, tag string, timeout time.Duration) (element.Control, error) {
	return p.control(h, tag, Located(h), timeout)
}

// Clickable waits until the element matching h is displayed and enabled.
func (p *Pauser) Clickable(h hook.Hook, tag string, timeout time.Duration) (element.Control, error) {
	return p.control(h, tag, ClickableLocated(h), timeout)
}

// ClickableElement waits until c is displayed and enabled.
func (p *Pauser) ClickableElement(c element.Control, timeout time.Duration) (element.Control, error) {
	return p.same(c, Clickable(c.WebElement()), timeout)
}

// Selected waits until the element matching h is selected.
func (p *Pauser) Selected(h hook.Hook, tag string, timeout time.Duration) (element.Control, error) {
	return p.control(h, tag, SelectionStateOfLocated(h, true), timeout)
}

// SelectedElement waits until c is selected.
func (p *Pauser) SelectedElement(c element.Control, timeout time.Duration) (element.Control, error) {
	return p.same(c, SelectionStateOf(c.WebElement(), true), timeout)
}

// Unselected waits until the element matching h is not selected.
func (p *Pauser) Unselected(h hook.Hook, tag string, timeout time.Duration) (element.Control, error) {
	return p.control(h, tag, SelectionStateOfLocated(h, false), timeout)
}

// UnselectedElement waits until c is not selected.
func (p *Pauser) UnselectedElement(c element.Control, timeout time.Duration) (element.Control, error) {
	return p.same(c, SelectionStateOf(c.WebElement(), false), timeout)
}

// FrameAvailable waits until the frame matching h can be switched to, and
// switches to it.
func (p *Pauser) FrameAvailable(h hook.Hook, timeout time.Duration) (selenium.WebDriver, error) {
	wd, err := Until(p, FrameAvailableLocated(h), timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}
	return wd, nil
}

// FrameAvailableByName waits until the frame with the given name or ID can
// be switched to, and switches to it.
func (p *Pauser) FrameAvailableByName(name string, timeout time.Duration) (selenium.WebDriver, error) {
	wd, err := Until(p, FrameAvailable(name), timeout)
	if err != nil {
		return nil, fmt.Errorf("frame %q: %w", name, err)
	}
	return wd, nil
}

// Staleness waits until c is detached from the page.
func (p *Pauser) Staleness(c element.Control, timeout time.Duration) (bool, error) {
	return Until(p, Staleness(c.WebElement()), timeout)
}

// TextPresent waits until the text of the element matching h contains text.
func (p *Pauser) TextPresent(h hook.Hook, text string, timeout time.Duration) (bool, error) {
	return Until(p, TextInLocated(h, text), timeout)
}

// TextPresentInElement waits until the text of c contains text.
func (p *Pauser) TextPresentInElement(c element.Control, text string, timeout time.Duration) (bool, error) {
	return Until(p, TextIn(c.WebElement(), text), timeout)
}

// TextPresentInValue waits until the value attribute of the element matching
// h contains text.
func (p *Pauser) TextPresentInValue(h hook.Hook, text string, timeout time.Duration) (bool, error) {
	return Until(p, TextInLocatedValue(h, text), timeout)
}

// TextPresentInElementValue waits until the value attribute of c contains
// text.
func (p *Pauser) TextPresentInElementValue(c element.Control, text string, timeout time.Duration) (bool, error) {
	return Until(p, TextInValue(c.WebElement(), text), timeout)
}
