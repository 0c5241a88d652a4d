package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumkit"
	"github.com/wanmail/seleniumkit/config"
	"github.com/wanmail/seleniumkit/hook"
	"github.com/wanmail/seleniumkit/internal/fakedriver"
	"github.com/wanmail/seleniumkit/pause"
)

type fakeBrowser struct {
	wd      *fakedriver.Driver
	p       *pause.Pauser
	typ     seleniumkit.Type
	started int
	stopped int
}

func (b *fakeBrowser) Start() error                      { b.started++; return nil }
func (b *fakeBrowser) Stop() error                       { b.stopped++; return nil }
func (b *fakeBrowser) Go(url string) error               { return b.wd.Get(url) }
func (b *fakeBrowser) Wait() *pause.Pauser               { return b.p }
func (b *fakeBrowser) Timeout() (time.Duration, error)   { return 200 * time.Millisecond, nil }
func (b *fakeBrowser) Status() (*selenium.Status, error) { return b.wd.Status() }
func (b *fakeBrowser) Name() string                      { return "seleniumkit-test" }

func withFakeBrowser(t *testing.T) *fakeBrowser {
	t.Helper()
	wd := fakedriver.New("session")
	p, err := pause.New(wd, pause.PollingInterval(20*time.Millisecond), pause.ProbeInterval(2*time.Millisecond))
	if err != nil {
		t.Fatalf("pause.New returned error: %v", err)
	}
	b := &fakeBrowser{wd: wd, p: p}
	orig := newBrowser
	newBrowser = func(_ *config.Config, typ seleniumkit.Type) browser {
		b.typ = typ
		return b
	}
	t.Cleanup(func() { newBrowser = orig })
	return b
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const testHooks = `
[login]
strategy = "id"
value = "user"

[submit]
strategy = "css"
value = "button[type=submit]"
`

func writeHooks(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hooks.toml")
	if err := os.WriteFile(path, []byte(testHooks), 0644); err != nil {
		t.Fatalf("os.WriteFile(%q) returned error: %v", path, err)
	}
	return path
}

func TestHooksCmd(t *testing.T) {
	out, err := execute(t, "hooks", writeHooks(t))
	if err != nil {
		t.Fatalf("hooks returned error: %v", err)
	}
	want := "login\tid=user\nsubmit\tcss=button[type=submit]\n"
	if out != want {
		t.Errorf("hooks printed %q, want %q", out, want)
	}

	if _, err := execute(t, "hooks", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("hooks on a missing file returned nil error, want an error")
	}
}

func TestWaitCmd(t *testing.T) {
	b := withFakeBrowser(t)
	b.wd.Add(selenium.ByID, "user", fakedriver.NewElement("input", ""))

	out, err := execute(t, "wait", "visible", "login", "--hooks", writeHooks(t), "--url", "https://example.com", "--type", "chrome")
	if err != nil {
		t.Fatalf("wait returned error: %v", err)
	}
	if !strings.Contains(out, "element(id=user)[0]") {
		t.Errorf("wait printed %q, want the element", out)
	}
	if b.typ != seleniumkit.Chrome || b.started != 1 || b.stopped != 1 {
		t.Errorf("browser type=%q started=%d stopped=%d, want chrome started and stopped once", b.typ, b.started, b.stopped)
	}
	if v := b.wd.Visited(); len(v) != 1 || v[0] != "https://example.com" {
		t.Errorf("visited %v, want https://example.com", v)
	}
}

func TestWaitCmdTimeout(t *testing.T) {
	b := withFakeBrowser(t)

	_, err := execute(t, "wait", "present", "id=missing", "--timeout", "50ms")
	if !errors.Is(err, pause.ErrTimeout) {
		t.Fatalf("wait returned %v, want ErrTimeout", err)
	}
	if b.stopped != 1 {
		t.Errorf("browser stopped %d times, want 1", b.stopped)
	}
}

func TestWaitCmdZeroTimeout(t *testing.T) {
	b := withFakeBrowser(t)

	_, err := execute(t, "wait", "present", "id=missing", "--timeout", "0")
	if !errors.Is(err, pause.ErrTimeout) {
		t.Fatalf("wait --timeout 0 returned %v, want ErrTimeout", err)
	}
	if n := b.wd.Waits(); n != 1 {
		t.Errorf("wait --timeout 0 made %d attempts, want 1", n)
	}

	b.wd.Add(selenium.ByID, "user", fakedriver.NewElement("input", ""))
	out, err := execute(t, "wait", "present", "id=user", "--timeout", "0")
	if err != nil {
		t.Fatalf("wait --timeout 0 on a present element returned error: %v", err)
	}
	if !strings.Contains(out, "element(id=user)[0]") {
		t.Errorf("wait printed %q, want the element", out)
	}
}

func TestWaitCmdBadArgs(t *testing.T) {
	withFakeBrowser(t)
	tests := []struct {
		desc string
		args []string
	}{
		{
			desc: "unknown condition",
			args: []string{"wait", "hovered", "id=x"},
		},
		{
			desc: "unknown hook name without a hooks file",
			args: []string{"wait", "visible", "login"},
		},
		{
			desc: "unknown session type",
			args: []string{"wait", "visible", "id=x", "--type", "safari"},
		},
		{
			desc: "text condition without text",
			args: []string{"wait", "text", "id=x"},
		},
	}
	for _, test := range tests {
		if _, err := execute(t, test.args...); err == nil {
			t.Errorf("%s: %v returned nil error, want an error", test.desc, test.args)
		}
	}
}

func TestRunWait(t *testing.T) {
	b := withFakeBrowser(t)
	field := fakedriver.NewElement("input", "")
	field.SetAttribute("value", "hello world")
	b.wd.Add(selenium.ByName, "q", field)
	b.wd.Add(selenium.ByID, "menu", fakedriver.NewSelect(false, "a"))
	b.wd.AddFrame("main")
	frame := fakedriver.NewElement("iframe", "")
	b.wd.Add(selenium.ByID, "main", frame)

	o := waitOptions{text: "world", timeout: time.Second}
	tests := []struct {
		condition string
		hook      string
		want      string
	}{
		{condition: "value", hook: "name=q", want: `name=q value contains "world"`},
		{condition: "invisible", hook: "id=gone", want: "id=gone invisible"},
		{condition: "frame", hook: "id=main", want: "switched to frame id=main"},
		{condition: "Present", hook: "id=menu", want: "select(id=menu)[0]"},
	}
	for _, test := range tests {
		got, err := runWait(b.p, test.condition, hook.MustParse(test.hook), o)
		if err != nil {
			t.Errorf("runWait(%q, %q) returned error: %v", test.condition, test.hook, err)
			continue
		}
		if got != test.want {
			t.Errorf("runWait(%q, %q) = %q, want %q", test.condition, test.hook, got, test.want)
		}
	}
}

func TestRunWaitStale(t *testing.T) {
	b := withFakeBrowser(t)
	row := fakedriver.NewElement("tr", "")
	b.wd.Add(selenium.ByCSSSelector, "tr", row)
	time.AfterFunc(60*time.Millisecond, func() { row.SetStale(true) })

	got, err := runWait(b.p, "stale", hook.MustParse("css=tr"), waitOptions{timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("runWait(stale) returned error: %v", err)
	}
	if got != "element(css=tr)[0] detached" {
		t.Errorf("runWait(stale) = %q, want %q", got, "element(css=tr)[0] detached")
	}
}

func TestStatusCmd(t *testing.T) {
	b := withFakeBrowser(t)
	var st selenium.Status
	st.Ready = true
	st.Build.Version = "4.8.1"
	b.wd.SetStatus(st)

	out, err := execute(t, "status", "--type", "grid")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	for _, want := range []string{"session: seleniumkit-test", "ready: true", "build: 4.8.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("status printed %q, want it to contain %q", out, want)
		}
	}
}
