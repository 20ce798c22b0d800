package hints

// Notes:
// - ForBrowserConnect tests are not parallel: they use t.Setenv and swap the
//   package-level IsInContainer.

import (
	"strings"
	"testing"
)

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		ci          string
		container   bool
		noSandbox   string
		browserBin  string
		wantSandbox bool
		wantBin     bool
	}{
		{name: "ci", ci: "true", wantSandbox: true, wantBin: true},
		{name: "container", container: true, wantSandbox: true, wantBin: true},
		{name: "sandbox already disabled", container: true, noSandbox: "1", wantBin: true},
		{name: "browser bin set", browserBin: "/usr/bin/chromium"},
		{name: "desktop", wantBin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := IsInContainer
			t.Cleanup(func() { IsInContainer = orig })
			IsInContainer = func() bool { return tt.container }

			t.Setenv("CI", tt.ci)
			t.Setenv("GITHUB_ACTIONS", "")
			t.Setenv("GITLAB_CI", "")
			t.Setenv("JENKINS_URL", "")
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect()

			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("ROD_NO_SANDBOX suggested = %v, want %v (hint %q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("ROD_BROWSER_BIN suggested = %v, want %v (hint %q)", got, tt.wantBin, hint)
			}
			if !tt.wantSandbox && !tt.wantBin && hint != "" {
				t.Errorf("expected no hint, got %q", hint)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	plain := ForConfigNotFound([]string{"work.yaml", "work.yml"})
	if !strings.Contains(plain, "--config") || strings.Contains(plain, "create") {
		t.Errorf("ForConfigNotFound(local only) = %q", plain)
	}

	withUser := ForConfigNotFound([]string{"work.yaml", "/home/u/.config/go-mdedit/work.yaml"})
	if !strings.Contains(withUser, "create /home/u/.config/go-mdedit/work.yaml") {
		t.Errorf("ForConfigNotFound(user dir) = %q", withUser)
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
	if got := ForStyleNotFound([]string{"default", "technical"}); !strings.Contains(got, "available: default, technical") {
		t.Errorf("ForStyleNotFound() = %q", got)
	}
}

func TestSingleHints(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		hint string
		want string
	}{
		"timeout":   {ForTimeout(), "MDEDIT_TIMEOUT"},
		"output":    {ForOutputDirectory(), "writable"},
		"highlight": {ForHighlightStyle(), "style names"},
		"renderer":  {ForRenderer(), "commonmark"},
	}

	for name, tt := range tests {
		if !strings.HasPrefix(tt.hint, "\n  hint: ") {
			t.Errorf("%s: hint %q lacks the standard prefix", name, tt.hint)
		}
		if !strings.Contains(tt.hint, tt.want) {
			t.Errorf("%s: hint %q missing %q", name, tt.hint, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if format("") != "" || formatHints(nil) != "" {
		t.Error("empty hints must format to empty string")
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints() = %q", got)
	}
}
