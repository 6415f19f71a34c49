package detect

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

// detectCopilot probes the token store editors maintain after a
// Copilot sign-in.
func detectCopilot(result *Result) {
	probeCopilot(result, copilotConfigDir())
}

func probeCopilot(result *Result, dir string) {
	result.check("copilot")
	if dir == "" {
		return
	}
	for _, name := range []string{"apps.json", "hosts.json"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			log.Printf("[detect] found copilot token store at %s", path)
			result.add("copilot", "config", path)
			return
		}
	}
}

func copilotConfigDir() string {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "github-copilot")
		}
		return ""
	}
	home := homeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "github-copilot")
}
