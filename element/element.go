// Package element wraps WebDriver elements together with the hook that
// located them.
package element

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumkit/hook"
)

// Control is the behavior shared by every kind of located element.
type Control interface {
	// Hook returns the hook used to locate the element.
	Hook() hook.Hook
	// Index is the position of the element among all the matches of Hook.
	Index() int
	// WebElement returns the underlying driver element.
	WebElement() selenium.WebElement

	Click() error
	SendString(s string) error
	Clear() error
	Text() (string, error)
	Attribute(name string) (string, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)
}

// Element is a plain located element.
type Element struct {
	hook  hook.Hook
	index int
	wd    selenium.WebDriver
	we    selenium.WebElement
}

var _ Control = (*Element)(nil)

// New wraps an element that has already been found.
func New(h hook.Hook, index int, wd selenium.WebDriver, we selenium.WebElement) *Element {
	return &Element{hook: h, index: index, wd: wd, we: we}
}

// Find locates the index-th element matching h.
func Find(wd selenium.WebDriver, h hook.Hook, index int) (*Element, error) {
	we, err := findNth(h, index, wd.FindElements)
	if err != nil {
		return nil, err
	}
	return New(h, index, wd, we), nil
}

func findNth(h hook.Hook, index int, find func(by, value string) ([]selenium.WebElement, error)) (selenium.WebElement, error) {
	if index < 0 {
		return nil, fmt.Errorf("hook %s: negative index %d", h, index)
	}
	by, value := h.By()
	wes, err := find(by, value)
	if err != nil {
		return nil, fmt.Errorf("hook %s: %w", h, err)
	}
	if index >= len(wes) {
		return nil, fmt.Errorf("hook %s: no such element: index %d out of %d matches", h, index, len(wes))
	}
	return wes[index], nil
}

// Convert wraps we in the Control that fits its tag name: a Selector for
// "select" elements and an Element otherwise. An empty tag is looked up on
// the element itself.
func Convert(h hook.Hook, index int, wd selenium.WebDriver, we selenium.WebElement, tag string) (Control, error) {
	if tag == "" {
		t, err := we.TagName()
		if err != nil {
			return nil, fmt.Errorf("hook %s: reading tag name: %w", h, err)
		}
		tag = t
	}
	e := New(h, index, wd, we)
	if strings.EqualFold(tag, "select") {
		return newSelector(e)
	}
	return e, nil
}

// Hook implements Control.
func (e *Element) Hook() hook.Hook { return e.hook }

// Index implements Control.
func (e *Element) Index() int { return e.index }

// WebElement implements Control.
func (e *Element) WebElement() selenium.WebElement { return e.we }

// Driver returns the WebDriver session the element belongs to.
func (e *Element) Driver() selenium.WebDriver { return e.wd }

// Click clicks on the element.
func (e *Element) Click() error {
	glog.V(1).Infof("click %s", e)
	return e.we.Click()
}

// SendString types s into the element.
func (e *Element) SendString(s string) error {
	glog.V(1).Infof("send %q to %s", s, e)
	return e.we.SendKeys(s)
}

// Clear clears the element's content.
func (e *Element) Clear() error {
	return e.we.Clear()
}

// Text returns the visible text of the element.
func (e *Element) Text() (string, error) {
	return e.we.Text()
}

// Attribute returns the named attribute of the element.
func (e *Element) Attribute(name string) (string, error) {
	return e.we.GetAttribute(name)
}

// IsDisplayed reports whether the element is visible.
func (e *Element) IsDisplayed() (bool, error) {
	return e.we.IsDisplayed()
}

// IsEnabled reports whether the element is enabled.
func (e *Element) IsEnabled() (bool, error) {
	return e.we.IsEnabled()
}

// IsSelected reports whether the element is selected.
func (e *Element) IsSelected() (bool, error) {
	return e.we.IsSelected()
}

// Hover moves the mouse onto the element.
func (e *Element) Hover() error {
	return e.we.MoveTo(0, 0)
}

// Element finds the index-th descendant of e matching h.
func (e *Element) Element(h hook.Hook, index int) (*Element, error) {
	we, err := findNth(h, index, e.we.FindElements)
	if err != nil {
		return nil, err
	}
	return New(h, index, e.wd, we), nil
}

func (e *Element) String() string {
	return fmt.Sprintf("element(%s)[%d]", e.hook, e.index)
}
