// Package hook describes how to locate an element on a page.
package hook

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// Strategy is the method by which a Hook locates an element.
type Strategy string

// Locator strategies.
const (
	CSS   Strategy = "css"
	XPath Strategy = "xpath"
	ID    Strategy = "id"
	Name  Strategy = "name"
	Link  Strategy = "link"
	PLink Strategy = "plink"
	Class Strategy = "class"
	Tag   Strategy = "tag"
)

var byMethods = map[Strategy]string{
	CSS:   selenium.ByCSSSelector,
	XPath: selenium.ByXPATH,
	ID:    selenium.ByID,
	Name:  selenium.ByName,
	Link:  selenium.ByLinkText,
	PLink: selenium.ByPartialLinkText,
	Class: selenium.ByClassName,
	Tag:   selenium.ByTagName,
}

// ParseStrategy returns the Strategy named by s, ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := byMethods[st]; !ok {
		return "", fmt.Errorf("unknown hook strategy %q", s)
	}
	return st, nil
}

// Hook pairs a locator strategy with the string it matches.
type Hook struct {
	Strategy Strategy
	Value    string
}

// New returns a Hook, validating the strategy.
func New(strategy Strategy, value string) (Hook, error) {
	if _, ok := byMethods[strategy]; !ok {
		return Hook{}, fmt.Errorf("unknown hook strategy %q", strategy)
	}
	if value == "" {
		return Hook{}, fmt.Errorf("hook with strategy %q has an empty value", strategy)
	}
	return Hook{Strategy: strategy, Value: value}, nil
}

// Parse reads a hook of the form "strategy=value" or "strategy:value". Only
// the first separator is significant, so "css=a[href='x']" is valid.
func Parse(s string) (Hook, error) {
	i := strings.IndexAny(s, "=:")
	if i < 0 {
		return Hook{}, fmt.Errorf("hook %q must be of the form 'strategy=value'", s)
	}
	st, err := ParseStrategy(s[:i])
	if err != nil {
		return Hook{}, err
	}
	return New(st, s[i+1:])
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Hook {
	h, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return h
}

// By returns the arguments to pass to FindElement and FindElements.
func (h Hook) By() (by, value string) {
	return byMethods[h.Strategy], h.Value
}

func (h Hook) String() string {
	return string(h.Strategy) + "=" + h.Value
}
