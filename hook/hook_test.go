package hook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tebeka/selenium"
)

func TestParse(t *testing.T) {
	tests := []struct {
		desc    string
		in      string
		want    Hook
		wantErr bool
	}{
		{
			desc: "equals separator",
			in:   "css=#login",
			want: Hook{CSS, "#login"},
		},
		{
			desc: "colon separator, upper case strategy",
			in:   "ID:user_name",
			want: Hook{ID, "user_name"},
		},
		{
			desc: "value containing separators",
			in:   "xpath=//a[@href='x:y=z']",
			want: Hook{XPath, "//a[@href='x:y=z']"},
		},
		{
			desc:    "missing separator",
			in:      "user_name",
			wantErr: true,
		},
		{
			desc:    "unknown strategy",
			in:      "jquery=$('a')",
			wantErr: true,
		},
		{
			desc:    "empty value",
			in:      "name=",
			wantErr: true,
		},
	}

	for _, test := range tests {
		got, err := Parse(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: Parse(%q) returned nil error, want an error", test.desc, test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: Parse(%q) returned error: %v", test.desc, test.in, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: Parse(%q) returned diff (-want/+got):\n%s", test.desc, test.in, diff)
		}
	}
}

func TestBy(t *testing.T) {
	tests := []struct {
		h      Hook
		wantBy string
	}{
		{Hook{CSS, "a"}, selenium.ByCSSSelector},
		{Hook{XPath, "a"}, selenium.ByXPATH},
		{Hook{ID, "a"}, selenium.ByID},
		{Hook{Name, "a"}, selenium.ByName},
		{Hook{Link, "a"}, selenium.ByLinkText},
		{Hook{PLink, "a"}, selenium.ByPartialLinkText},
		{Hook{Class, "a"}, selenium.ByClassName},
		{Hook{Tag, "a"}, selenium.ByTagName},
	}
	for _, test := range tests {
		by, value := test.h.By()
		if by != test.wantBy || value != "a" {
			t.Errorf("%v.By() = (%q, %q), want (%q, %q)", test.h, by, value, test.wantBy, "a")
		}
	}
}

func TestString(t *testing.T) {
	h := MustParse("class:button")
	if got, want := h.String(), "class=button"; got != want {
		t.Errorf("h.String() = %q, want %q", got, want)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("os.WriteFile(%q) returned error: %v", path, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	want := Set{
		"login":  {ID, "user_name"},
		"submit": {CSS, "button[type=submit]"},
	}

	tests := []struct {
		desc, name, content string
	}{
		{
			desc: "toml",
			name: "hooks.toml",
			content: `
[login]
strategy = "id"
value = "user_name"

[submit]
strategy = "CSS"
value = "button[type=submit]"
`,
		},
		{
			desc: "yaml",
			name: "hooks.yml",
			content: `
login:
  strategy: id
  value: user_name
submit:
  strategy: css
  value: button[type=submit]
`,
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			path := writeFile(t, test.name, test.content)
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load(%q) returned error: %v", path, err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("Load(%q) returned diff (-want/+got):\n%s", path, diff)
			}
			if diff := cmp.Diff([]string{"login", "submit"}, got.Names()); diff != "" {
				t.Fatalf("Names() returned diff (-want/+got):\n%s", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		desc, name, content string
	}{
		{"unknown extension", "hooks.ini", "login=id:user"},
		{"bad strategy", "hooks.toml", "[login]\nstrategy = \"jquery\"\nvalue = \"a\"\n"},
		{"empty value", "hooks.yaml", "login:\n  strategy: id\n"},
		{"malformed", "hooks.toml", "[login\n"},
	}
	for _, test := range tests {
		path := writeFile(t, test.name, test.content)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load(%q) returned nil error, want an error", test.desc, path)
		}
	}
}

func TestSetGet(t *testing.T) {
	s := Set{"login": {ID, "user"}}
	if _, err := s.Get("login"); err != nil {
		t.Errorf("s.Get(%q) returned error: %v", "login", err)
	}
	if _, err := s.Get("logout"); err == nil {
		t.Errorf("s.Get(%q) returned nil error, want an error", "logout")
	}
}
