package element

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// Selector is a <select> dropdown.
type Selector struct {
	*Element
	multiple bool
}

var _ Control = (*Selector)(nil)

// errSingleSelect is returned when deselecting in a single-choice dropdown.
var errSingleSelect = errors.New("you may only deselect options of a multi-select")

func newSelector(e *Element) (*Selector, error) {
	tag, err := e.we.TagName()
	if err != nil {
		return nil, fmt.Errorf("%s: reading tag name: %w", e, err)
	}
	if !strings.EqualFold(tag, "select") {
		return nil, fmt.Errorf(`%s: element should have been "select" but was %q`, e, tag)
	}
	// The attribute is absent, or "false" in some drivers, on single-choice
	// dropdowns.
	mult, err := e.we.GetAttribute("multiple")
	multiple := err == nil && mult != "" && !strings.EqualFold(mult, "false")
	return &Selector{Element: e, multiple: multiple}, nil
}

// AsSelector returns e as a dropdown. It fails if e is not a <select>.
func AsSelector(e *Element) (*Selector, error) {
	return newSelector(e)
}

// IsMultiple reports whether more than one option may be selected at once.
func (s *Selector) IsMultiple() bool {
	return s.multiple
}

// Options returns every option of the dropdown.
func (s *Selector) Options() ([]selenium.WebElement, error) {
	return s.we.FindElements(selenium.ByTagName, "option")
}

// SelectedOptions returns the options that are currently selected.
func (s *Selector) SelectedOptions() ([]selenium.WebElement, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	var selected []selenium.WebElement
	for _, o := range opts {
		ok, err := o.IsSelected()
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, o)
		}
	}
	return selected, nil
}

// FirstSelected returns the first selected option.
func (s *Selector) FirstSelected() (selenium.WebElement, error) {
	opts, err := s.SelectedOptions()
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("%s: no options are selected", s)
	}
	return opts[0], nil
}

// SelectByVisibleText selects the options whose text matches text, e.g.
// "Bar" selects <option value="foo">Bar</option>.
func (s *Selector) SelectByVisibleText(text string) error {
	options, err := s.we.FindElements(selenium.ByXPATH, `.//option[normalize-space(.) = "`+escapeQuotes(text)+`"]`)
	if err != nil {
		return err
	}
	for _, o := range options {
		if err := setSelected(o, true); err != nil {
			return err
		}
		if !s.multiple {
			return nil
		}
	}

	matched := len(options) > 0
	if !matched && strings.Contains(text, " ") {
		// normalize-space collapses inner whitespace, so fall back to
		// comparing trimmed text of the candidates.
		var candidates []selenium.WebElement
		if sub := longestWord(text); sub == "" {
			candidates, err = s.Options()
		} else {
			candidates, err = s.we.FindElements(selenium.ByXPATH, `.//option[contains(., "`+escapeQuotes(sub)+`")]`)
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(text)
		for _, o := range candidates {
			t, err := o.Text()
			if err != nil {
				return err
			}
			if trimmed != strings.TrimSpace(t) {
				continue
			}
			if err := setSelected(o, true); err != nil {
				return err
			}
			if !s.multiple {
				return nil
			}
			matched = true
		}
	}
	if !matched {
		return fmt.Errorf("%s: cannot locate option with text %q", s, text)
	}
	return nil
}

// SelectByValue selects the options whose value attribute equals value.
func (s *Selector) SelectByValue(value string) error {
	opts, err := s.optionsByValue(value)
	if err != nil {
		return err
	}
	for _, o := range opts {
		if err := setSelected(o, true); err != nil {
			return err
		}
		if !s.multiple {
			return nil
		}
	}
	return nil
}

// SelectByIndex selects the index-th option.
func (s *Selector) SelectByIndex(index int) error {
	return s.setSelectedByIndex(index, true)
}

// DeselectAll clears every selected option of a multi-select.
func (s *Selector) DeselectAll() error {
	if !s.multiple {
		return errSingleSelect
	}
	opts, err := s.Options()
	if err != nil {
		return err
	}
	for _, o := range opts {
		if err := setSelected(o, false); err != nil {
			return err
		}
	}
	return nil
}

// DeselectByValue clears the options whose value attribute equals value.
func (s *Selector) DeselectByValue(value string) error {
	if !s.multiple {
		return errSingleSelect
	}
	opts, err := s.optionsByValue(value)
	if err != nil {
		return err
	}
	for _, o := range opts {
		if err := setSelected(o, false); err != nil {
			return err
		}
	}
	return nil
}

// DeselectByIndex clears the index-th option.
func (s *Selector) DeselectByIndex(index int) error {
	if !s.multiple {
		return errSingleSelect
	}
	return s.setSelectedByIndex(index, false)
}

// DeselectByVisibleText clears the options whose text matches text.
func (s *Selector) DeselectByVisibleText(text string) error {
	if !s.multiple {
		return errSingleSelect
	}
	opts, err := s.we.FindElements(selenium.ByXPATH, `.//option[normalize-space(.) = "`+escapeQuotes(text)+`"]`)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("%s: cannot locate option with text %q", s, text)
	}
	for _, o := range opts {
		if err := setSelected(o, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *Selector) String() string {
	return fmt.Sprintf("select(%s)[%d]", s.hook, s.index)
}

func (s *Selector) optionsByValue(value string) ([]selenium.WebElement, error) {
	opts, err := s.we.FindElements(selenium.ByXPATH, `.//option[@value = "`+escapeQuotes(value)+`"]`)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("%s: cannot locate option with value %q", s, value)
	}
	return opts, nil
}

func (s *Selector) setSelectedByIndex(index int, selected bool) error {
	opts, err := s.Options()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(opts) {
		return fmt.Errorf("%s: cannot locate option with index %d", s, index)
	}
	return setSelected(opts[index], selected)
}

// setSelected toggles option by clicking it, only when its state differs.
func setSelected(option selenium.WebElement, selected bool) error {
	sel, err := option.IsSelected()
	if err != nil {
		return err
	}
	if sel == selected {
		return nil
	}
	return option.Click()
}

func escapeQuotes(s string) string {
	return strings.Replace(s, `"`, `\"`, -1)
}

func longestWord(s string) string {
	var result string
	for _, w := range strings.Split(s, " ") {
		if len(w) > len(result) {
			result = w
		}
	}
	return result
}
