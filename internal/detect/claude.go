package detect

import (
	"log"
	"path/filepath"
	"runtime"
)

// detectClaudeDesktop probes the desktop app's cookie store. The store
// is only decryptable on macOS, so other platforms never report it.
func detectClaudeDesktop(result *Result) {
	probeClaudeDesktop(result, claudeCookiesPath())
}

func probeClaudeDesktop(result *Result, path string) {
	result.check("claude_web")
	if path == "" || !fileExists(path) {
		return
	}
	log.Printf("[detect] found claude desktop cookies at %s", path)
	result.add("claude_web", "cookies", path)
}

func claudeCookiesPath() string {
	if runtime.GOOS != "darwin" {
		return ""
	}
	home := homeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, "Library", "Application Support", "Claude", "Cookies")
}
