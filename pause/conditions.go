package pause

import (
	"strings"

	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumkit/hook"
)

// Driver error messages that mean "not yet" rather than a fault.
const (
	noSuchElement = "no such element"
	staleElement  = "stale element reference"
	noSuchFrame   = "no such frame"
	nilValue      = "nil return value"
)

func isError(err error, kinds ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, k := range kinds {
		if strings.Contains(msg, k) {
			return true
		}
	}
	return false
}

// find locates the first element matching h. A missing or detached element
// is reported as (nil, nil).
func find(wd selenium.WebDriver, h hook.Hook) (selenium.WebElement, error) {
	by, value := h.By()
	we, err := wd.FindElement(by, value)
	if isError(err, noSuchElement, staleElement) {
		return nil, nil
	}
	return we, err
}

// Located succeeds with the first element matching h.
func Located(h hook.Hook) Predicate[selenium.WebElement] {
	return PredicateFunc[selenium.WebElement](func(wd selenium.WebDriver) (selenium.WebElement, bool, error) {
		we, err := find(wd, h)
		return we, we != nil, err
	})
}

func visible(we selenium.WebElement) (bool, error) {
	ok, err := we.IsDisplayed()
	if isError(err, staleElement) {
		return false, nil
	}
	return ok, err
}

// VisibilityOfLocated succeeds with the element matching h once it is
// displayed.
func VisibilityOfLocated(h hook.Hook) Predicate[selenium.WebElement] {
	return PredicateFunc[selenium.WebElement](func(wd selenium.WebDriver) (selenium.WebElement, bool, error) {
		we, err := find(wd, h)
		if we == nil || err != nil {
			return nil, false, err
		}
		ok, err := visible(we)
		return we, ok, err
	})
}

// VisibilityOf succeeds with we once it is displayed.
func VisibilityOf(we selenium.WebElement) Predicate[selenium.WebElement] {
	return PredicateFunc[selenium.WebElement](func(selenium.WebDriver) (selenium.WebElement, bool, error) {
		ok, err := we.IsDisplayed()
		return we, ok, err
	})
}

// InvisibilityOfLocated succeeds once no element matches h, or the match is
// hidden or detached.
func InvisibilityOfLocated(h hook.Hook) Predicate[bool] {
	return PredicateFunc[bool](func(wd selenium.WebDriver) (bool, bool, error) {
		we, err := find(wd, h)
		if err != nil {
			return false, false, err
		}
		if we == nil {
			return true, true, nil
		}
		ok, err := we.IsDisplayed()
		if isError(err, staleElement) {
			return true, true, nil
		}
		return !ok, !ok && err == nil, err
	})
}

// InvisibilityOfLocatedWithText succeeds once no element matches h, or the
// match is detached, or its text is no longer text.
func InvisibilityOfLocatedWithText(h hook.Hook, text string) Predicate[bool] {
	return PredicateFunc[bool](func(wd selenium.WebDriver) (bool, bool, error) {
		we, err := find(wd, h)
		if err != nil {
			return false, false, err
		}
		if we == nil {
			return true, true, nil
		}
		got, err := we.Text()
		if isError(err, staleElement) {
			return true, true, nil
		}
		if err != nil {
			return false, false, err
		}
		return got != text, got != text, nil
	})
}

// ClickableLocated succeeds with the element matching h once it is displayed
// and enabled.
func ClickableLocated(h hook.Hook) Predicate[selenium.WebElement] {
	return PredicateFunc[selenium.WebElement](func(wd selenium.WebDriver) (selenium.WebElement, bool, error) {
		we, err := find(wd, h)
		if we == nil || err != nil {
			return nil, false, err
		}
		return clickable(we)
	})
}

// Clickable succeeds with we once it is displayed and enabled.
func Clickable(we selenium.WebElement) Predicate[selenium.WebElement] {
	return PredicateFunc[selenium.WebElement](func(selenium.WebDriver) (selenium.WebElement, bool, error) {
		return clickable(we)
	})
}

func clickable(we selenium.WebElement) (selenium.WebElement, bool, error) {
	ok, err := visible(we)
	if !ok || err != nil {
		return we, false, err
	}
	enabled, err := we.IsEnabled()
	if isError(err, staleElement) {
		return we, false, nil
	}
	return we, enabled, err
}

// SelectionStateOfLocated succeeds with the element matching h once its
// selection state is selected.
func SelectionStateOfLocated(h hook.Hook, selected bool) Predicate[selenium.WebElement] {
	return PredicateFunc[selenium.WebElement](func(wd selenium.WebDriver) (selenium.WebElement, bool, error) {
		we, err := find(wd, h)
		if we == nil || err != nil {
			return nil, false, err
		}
		got, err := we.IsSelected()
		if isError(err, staleElement) {
			return nil, false, nil
		}
		return we, err == nil && got == selected, err
	})
}

// SelectionStateOf succeeds with we once its selection state is selected.
func SelectionStateOf(we selenium.WebElement, selected bool) Predicate[selenium.WebElement] {
	return PredicateFunc[selenium.WebElement](func(selenium.WebDriver) (selenium.WebElement, bool, error) {
		got, err := we.IsSelected()
		return we, err == nil && got == selected, err
	})
}

// FrameAvailableLocated succeeds once the driver has switched into the frame
// matching h. The driver is left switched.
func FrameAvailableLocated(h hook.Hook) Predicate[selenium.WebDriver] {
	return PredicateFunc[selenium.WebDriver](func(wd selenium.WebDriver) (selenium.WebDriver, bool, error) {
		we, err := find(wd, h)
		if we == nil || err != nil {
			return nil, false, err
		}
		return switchFrame(wd, we)
	})
}

// FrameAvailable succeeds once the driver has switched into the frame with
// the given name or ID. The driver is left switched.
func FrameAvailable(name string) Predicate[selenium.WebDriver] {
	return PredicateFunc[selenium.WebDriver](func(wd selenium.WebDriver) (selenium.WebDriver, bool, error) {
		return switchFrame(wd, name)
	})
}

func switchFrame(wd selenium.WebDriver, frame interface{}) (selenium.WebDriver, bool, error) {
	err := wd.SwitchFrame(frame)
	if isError(err, noSuchFrame, staleElement) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return wd, true, nil
}

// Staleness succeeds once we is no longer attached to the page.
func Staleness(we selenium.WebElement) Predicate[bool] {
	return PredicateFunc[bool](func(selenium.WebDriver) (bool, bool, error) {
		// Any call works; IsEnabled is cheap and has no side effects.
		_, err := we.IsEnabled()
		if isError(err, staleElement) {
			return true, true, nil
		}
		return false, false, err
	})
}

// TextInLocated succeeds once the text of the element matching h contains
// text.
func TextInLocated(h hook.Hook, text string) Predicate[bool] {
	return textIn(h, text, func(we selenium.WebElement) (string, error) { return we.Text() })
}

// TextIn succeeds once the text of we contains text.
func TextIn(we selenium.WebElement, text string) Predicate[bool] {
	return textOf(we, text, func(we selenium.WebElement) (string, error) { return we.Text() })
}

// TextInLocatedValue succeeds once the value attribute of the element
// matching h contains text.
func TextInLocatedValue(h hook.Hook, text string) Predicate[bool] {
	return textIn(h, text, value)
}

// TextInValue succeeds once the value attribute of we contains text.
func TextInValue(we selenium.WebElement, text string) Predicate[bool] {
	return textOf(we, text, value)
}

// value reads the value attribute, treating a missing attribute as empty.
func value(we selenium.WebElement) (string, error) {
	v, err := we.GetAttribute("value")
	if isError(err, nilValue) {
		return "", nil
	}
	return v, err
}

func textIn(h hook.Hook, text string, read func(selenium.WebElement) (string, error)) Predicate[bool] {
	return PredicateFunc[bool](func(wd selenium.WebDriver) (bool, bool, error) {
		we, err := find(wd, h)
		if we == nil || err != nil {
			return false, false, err
		}
		return contains(we, text, read)
	})
}

func textOf(we selenium.WebElement, text string, read func(selenium.WebElement) (string, error)) Predicate[bool] {
	return PredicateFunc[bool](func(selenium.WebDriver) (bool, bool, error) {
		return contains(we, text, read)
	})
}

func contains(we selenium.WebElement, text string, read func(selenium.WebElement) (string, error)) (bool, bool, error) {
	got, err := read(we)
	if isError(err, staleElement) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	ok := strings.Contains(got, text)
	return ok, ok, nil
}
