// Package detect scans the workstation for provider credentials and
// local tools, turning what it finds into registry suggestions.
package detect

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/quotadeck/internal/config"
)

// Finding is one positive discovery: a credential, binary, or data file
// that makes a provider worth querying.
type Finding struct {
	ProviderID string
	Source     string // "env", "binary", "config", "state_db", "cookies"
	Detail     string // masked key or path, loggable as-is
}

// Result carries the findings plus every provider id that was probed,
// so callers can tell "nothing found" apart from "never checked".
type Result struct {
	Findings []Finding
	Checked  []string
}

// AutoDetect runs every probe. It only reads the environment and the
// filesystem; nothing is queried over the network.
func AutoDetect() Result {
	var result Result
	detectEnvKeys(&result)
	detectOllama(&result)
	detectCopilot(&result)
	detectClaudeDesktop(&result)
	detectCursor(&result)
	return result
}

func (r *Result) check(providerID string) {
	if !lo.Contains(r.Checked, providerID) {
		r.Checked = append(r.Checked, providerID)
	}
}

func (r *Result) add(providerID, source, detail string) {
	r.check(providerID)
	r.Findings = append(r.Findings, Finding{ProviderID: providerID, Source: source, Detail: detail})
}

// Has reports whether anything was found for a provider.
func (r Result) Has(providerID string) bool {
	return lo.SomeBy(r.Findings, func(f Finding) bool { return f.ProviderID == providerID })
}

// Apply folds the scan into registry suggestions: probed providers with
// no findings get an explicit disable, so a fresh install only shows
// sources that exist. Entries the user already wrote win, and an empty
// scan changes nothing.
func (r Result) Apply(cfg config.Config) config.Config {
	if len(r.Findings) == 0 {
		return cfg
	}

	merged := make(map[string]config.ProviderSettings, len(cfg.Providers))
	for id, s := range cfg.Providers {
		merged[id] = s
	}
	for _, id := range r.Checked {
		if _, userSet := merged[id]; userSet {
			continue
		}
		if r.Has(id) {
			continue
		}
		off := false
		merged[id] = config.ProviderSettings{Enabled: &off}
	}
	cfg.Providers = merged
	return cfg
}

// envKeyTable maps credential environment variables to provider ids.
var envKeyTable = []struct {
	EnvVar     string
	ProviderID string
}{
	{"OPENAI_API_KEY", "openai"},
	{"ANTHROPIC_API_KEY", "anthropic"},
	{"OPENROUTER_API_KEY", "openrouter"},
}

func detectEnvKeys(result *Result) {
	for _, entry := range envKeyTable {
		result.check(entry.ProviderID)
		val := os.Getenv(entry.EnvVar)
		if val == "" {
			continue
		}
		masked := maskKey(val)
		log.Printf("[detect] found %s=%s", entry.EnvVar, masked)
		result.add(entry.ProviderID, "env", entry.EnvVar+"="+masked)
	}
}

// maskKey keeps just enough of a key to recognize it in logs.
func maskKey(val string) string {
	if len(val) < 10 {
		return "****"
	}
	return val[:4] + "..." + val[len(val)-4:]
}

// findBinary checks if a binary exists on PATH and returns its full path.
func findBinary(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func homeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}

// Summary returns a human-readable account of the scan.
func (r Result) Summary() string {
	if len(r.Findings) == 0 {
		return "No provider credentials or tools detected.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Detected %d source(s):\n", len(r.Findings)))
	for _, f := range r.Findings {
		sb.WriteString(fmt.Sprintf("  • %s (%s: %s)\n", f.ProviderID, f.Source, f.Detail))
	}
	return sb.String()
}
