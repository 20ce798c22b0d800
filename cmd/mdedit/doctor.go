package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdedit/internal/assets"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Styles   []string   `json:"styles"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// Probes replaced in tests.
var (
	lookChrome    = launcher.LookPath
	chromeVersion = func(path string) (string, error) {
		out, err := exec.Command(path, "--version").Output() // #nosec G204 -- detected browser binary
		return strings.TrimSpace(string(out)), err
	}
	tempDir = os.TempDir
)

// runDoctorCmd executes the doctor command and returns an exit code.
// Warnings still exit 0; only errors exit 1. PDF export needs Chrome,
// HTML export and preview do not.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		default:
			fmt.Fprintf(env.Stderr, "error: %v: unknown argument %q\n", ErrInvalidArgs, arg)
			return ExitUsage
		}
	}

	result := runDoctor(env.Getenv)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(getenv func(string) string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
		Styles: assets.StyleNames(),
	}

	checkChrome(result)
	checkEnvironment(result, getenv)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkChrome locates Chrome the way the PDF exporter launches it:
// ROD_BROWSER_BIN first, then rod's search path.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = lookChrome()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN (needed for PDF export only)")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	if version, err := chromeVersion(chromePath); err == nil {
		result.Chrome.Version = version
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// ciVars are set by common CI providers.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer reports whether we run in a container and which signal said so.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("MDEDIT_CONTAINER") == "1" {
		return true, "MDEDIT_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman and systemd-nspawn.
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for PDF rendering is writable.
func checkSystem(result *doctorResult) {
	dir := tempDir()
	f, err := os.CreateTemp(dir, "mdedit-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", dir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdedit doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.Styles, ", "))
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to export")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready for PDF export (see errors above)")
	}
}
