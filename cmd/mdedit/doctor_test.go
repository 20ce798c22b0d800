package main

// Notes:
// - The Chrome and temp-dir probes are package variables swapped per test,
//   so these tests do not run in parallel.
// - ROD_NO_SANDBOX=1 is set where a clean status is expected, since the
//   test host may itself be a container.

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// stubProbes replaces the doctor probes for the duration of the test.
func stubProbes(t *testing.T, chromePath string, found bool, versionErr error, tmp string) {
	t.Helper()

	origLook, origVersion, origTemp := lookChrome, chromeVersion, tempDir
	t.Cleanup(func() {
		lookChrome, chromeVersion, tempDir = origLook, origVersion, origTemp
	})

	lookChrome = func() (string, bool) { return chromePath, found }
	chromeVersion = func(string) (string, error) {
		if versionErr != nil {
			return "", versionErr
		}
		return "Chromium 120.0", nil
	}
	tempDir = func() string { return tmp }
}

func TestRunDoctorCmd_Ready(t *testing.T) {
	dir := t.TempDir()
	chrome := writeFile(t, dir, "chrome", "#!/bin/sh")
	stubProbes(t, chrome, true, nil, dir)

	env := newTestEnv(map[string]string{"ROD_NO_SANDBOX": "1"})
	code := runDoctorCmd([]string{"--json"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}

	var result doctorResult
	if err := json.Unmarshal(env.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, env.stdout)
	}
	if result.Status != statusReady {
		t.Errorf("status = %q, want ready (warnings %v, errors %v)", result.Status, result.Warnings, result.Errors)
	}
	if !result.Chrome.Found || result.Chrome.Path != chrome || result.Chrome.Version != "Chromium 120.0" {
		t.Errorf("chrome = %+v", result.Chrome)
	}
	if result.Chrome.Sandbox {
		t.Error("sandbox reported enabled with ROD_NO_SANDBOX=1")
	}
	if !result.System.TempWritable {
		t.Error("temp dir reported not writable")
	}
	if strings.Join(result.Styles, ",") != "default,technical" {
		t.Errorf("styles = %v", result.Styles)
	}
}

func TestRunDoctorCmd_BrowserBinOverride(t *testing.T) {
	dir := t.TempDir()
	bin := writeFile(t, dir, "custom-chrome", "")
	stubProbes(t, "", false, nil, dir)

	env := newTestEnv(map[string]string{"ROD_BROWSER_BIN": bin, "ROD_NO_SANDBOX": "1"})
	if code := runDoctorCmd(nil, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d\n%s", code, ExitSuccess, env.stdout)
	}
	if !strings.Contains(env.stdout.String(), "[OK] Found at "+bin) {
		t.Errorf("output:\n%s", env.stdout)
	}
}

func TestRunDoctorCmd_Errors(t *testing.T) {
	tests := []struct {
		name      string
		chrome    string
		found     bool
		tmp       func(t *testing.T) string
		wantError string
	}{
		{
			name:      "chrome not found",
			found:     false,
			tmp:       func(t *testing.T) string { return t.TempDir() },
			wantError: "Chrome/Chromium not found",
		},
		{
			name:      "chrome path missing",
			chrome:    filepath.Join("no", "such", "chrome"),
			found:     true,
			tmp:       func(t *testing.T) string { return t.TempDir() },
			wantError: "Chrome not found at",
		},
		{
			name:      "temp not writable",
			found:     false,
			tmp:       func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			wantError: "Temp directory not writable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProbes(t, tt.chrome, tt.found, nil, tt.tmp(t))

			env := newTestEnv(map[string]string{"ROD_NO_SANDBOX": "1"})
			code := runDoctorCmd(nil, env.Environment)
			if code != ExitGeneral {
				t.Errorf("exit code = %d, want %d", code, ExitGeneral)
			}
			out := env.stdout.String()
			if !strings.Contains(out, "[ERROR] "+tt.wantError) {
				t.Errorf("output missing %q:\n%s", tt.wantError, out)
			}
			if !strings.Contains(out, "Status: Not ready") {
				t.Errorf("output missing final status:\n%s", out)
			}
		})
	}
}

func TestRunDoctorCmd_Warnings(t *testing.T) {
	dir := t.TempDir()
	chrome := writeFile(t, dir, "chrome", "")
	stubProbes(t, chrome, true, errors.New("exec format error"), dir)

	env := newTestEnv(map[string]string{"CI": "true"})
	code := runDoctorCmd(nil, env.Environment)
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}

	out := env.stdout.String()
	for _, want := range []string{
		"[OK] CI: detected",
		"[WARN] Could not get Chrome version",
		"[WARN] Container/CI detected but ROD_NO_SANDBOX not set",
		"Status: Ready with warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestIsContainer_Signals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantHint string
	}{
		{"explicit", map[string]string{"MDEDIT_CONTAINER": "1"}, "MDEDIT_CONTAINER=1"},
		{"podman", map[string]string{"container": "podman"}, "container=podman"},
		{"kubernetes", map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}, "KUBERNETES_SERVICE_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, hint := isContainer(func(k string) string { return tt.vars[k] })
			if !got {
				t.Fatal("container not detected")
			}
			// /.dockerenv outranks the variables when present on the host.
			if hint != tt.wantHint && hint != "/.dockerenv" {
				t.Errorf("hint = %q, want %q", hint, tt.wantHint)
			}
		})
	}
}
