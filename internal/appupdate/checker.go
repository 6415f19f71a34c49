// Package appupdate asks GitHub for the newest released build and works out
// how the running binary was installed, so the dashboard can show the one
// upgrade command that will actually work on this machine.
package appupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	binaryName = "quotadeck"

	defaultLatestReleaseURL = "https://api.github.com/repos/janekbaraniewski/quotadeck/releases/latest"
	installScriptURL        = "https://github.com/janekbaraniewski/quotadeck/releases/latest/download/install.sh"

	// The check runs alongside dashboard startup and must never hold it up.
	defaultRequestTimeout = 1500 * time.Millisecond
)

// InstallMethod is the best guess at how this binary got onto the machine.
type InstallMethod string

const (
	InstallMethodUnknown       InstallMethod = "unknown"
	InstallMethodHomebrew      InstallMethod = "homebrew"
	InstallMethodGoInstall     InstallMethod = "go_install"
	InstallMethodInstallScript InstallMethod = "install_script"
	InstallMethodScoop         InstallMethod = "scoop"
	InstallMethodChocolatey    InstallMethod = "chocolatey"
)

type CheckOptions struct {
	CurrentVersion   string
	ExecutablePath   string
	LatestReleaseURL string
	Timeout          time.Duration
	HTTPClient       *http.Client
}

type Result struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	InstallMethod   InstallMethod
	UpgradeHint     string
	ExecutablePath  string
}

// Check compares the running version against the latest GitHub release.
// Dev and pre-release builds skip the network round trip entirely.
func Check(ctx context.Context, opts CheckOptions) (Result, error) {
	currentVersion := normalizeReleaseVersion(opts.CurrentVersion)
	executablePath := resolveExecutablePath(opts.ExecutablePath)
	method := detectInstallMethod(executablePath)

	result := Result{
		CurrentVersion: currentVersion,
		InstallMethod:  method,
		UpgradeHint:    upgradeHint(method),
		ExecutablePath: executablePath,
	}

	if currentVersion == "" {
		return result, nil
	}

	latestVersion, err := fetchLatestReleaseVersion(ctx, opts, currentVersion)
	if err != nil {
		return result, err
	}

	result.LatestVersion = latestVersion
	result.UpdateAvailable = semver.Compare(latestVersion, currentVersion) > 0
	return result, nil
}

func fetchLatestReleaseVersion(ctx context.Context, opts CheckOptions, currentVersion string) (string, error) {
	latestURL := strings.TrimSpace(opts.LatestReleaseURL)
	if latestURL == "" {
		latestURL = defaultLatestReleaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, latestURL, nil)
	if err != nil {
		return "", fmt.Errorf("build latest release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", binaryName+"/"+currentVersion)
	if token := strings.TrimSpace(os.Getenv("QUOTADECK_GITHUB_TOKEN")); token != "" && shouldAttachGitHubToken(latestURL) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode latest release payload: %w", err)
	}

	latest := normalizeReleaseVersion(payload.TagName)
	if latest == "" {
		return "", fmt.Errorf("latest release tag is not a stable semver: %q", payload.TagName)
	}
	return latest, nil
}

func resolveExecutablePath(explicitPath string) string {
	if p := strings.TrimSpace(explicitPath); p != "" {
		return normalizePathForMatch(p)
	}
	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exePath); err == nil && strings.TrimSpace(resolved) != "" {
		exePath = resolved
	}
	return normalizePathForMatch(exePath)
}

func normalizePathForMatch(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
}

func detectInstallMethod(executablePath string) InstallMethod {
	path := normalizePathForMatch(executablePath)
	if path == "" {
		return InstallMethodUnknown
	}

	switch {
	case strings.Contains(path, "/cellar/"+binaryName+"/"), path == "/opt/homebrew/bin/"+binaryName:
		return InstallMethodHomebrew
	case strings.Contains(path, "/scoop/apps/"+binaryName+"/"):
		return InstallMethodScoop
	case strings.Contains(path, "/chocolatey/lib/"+binaryName+"/"), strings.Contains(path, "/chocolatey/bin/"+binaryName):
		return InstallMethodChocolatey
	case isGoInstallPath(path):
		return InstallMethodGoInstall
	case binaryInDirs(path, installScriptDirs()):
		return InstallMethodInstallScript
	default:
		return InstallMethodUnknown
	}
}

func isGoInstallPath(path string) bool {
	// Catches any GOPATH-shaped location even when GOPATH is unset.
	if strings.HasSuffix(path, "/go/bin/"+binaryName) || strings.HasSuffix(path, "/go/bin/"+binaryName+".exe") {
		return true
	}
	return binaryInDirs(path, goBinDirs())
}

// goBinDirs lists every bin directory `go install` could have written to.
func goBinDirs() []string {
	var dirs []string
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		dirs = append(dirs, gobin)
	}
	for _, gp := range filepath.SplitList(os.Getenv("GOPATH")) {
		if gp != "" {
			dirs = append(dirs, filepath.Join(gp, "bin"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "go", "bin"))
	}
	return dirs
}

func installScriptDirs() []string {
	dirs := []string{"/usr/local/bin", "/usr/bin"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "bin"), filepath.Join(home, "bin"))
	}
	return dirs
}

func binaryInDirs(path string, dirs []string) bool {
	for _, dir := range dirs {
		base := normalizePathForMatch(dir)
		if base == "" {
			continue
		}
		if path == base+"/"+binaryName || path == base+"/"+binaryName+".exe" {
			return true
		}
	}
	return false
}

func upgradeHint(method InstallMethod) string {
	switch method {
	case InstallMethodHomebrew:
		return "brew upgrade janekbaraniewski/tap/" + binaryName
	case InstallMethodGoInstall:
		return "go install github.com/janekbaraniewski/quotadeck/cmd/quotadeck@latest"
	case InstallMethodScoop:
		return "scoop update " + binaryName
	case InstallMethodChocolatey:
		return "choco upgrade " + binaryName + " -y"
	default:
		return "curl -fsSL " + installScriptURL + " | bash"
	}
}

func normalizeReleaseVersion(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	if semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return ""
	}
	return semver.Canonical(v)
}

func shouldAttachGitHubToken(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return false
	}
	return strings.EqualFold(parsed.Hostname(), "api.github.com")
}
