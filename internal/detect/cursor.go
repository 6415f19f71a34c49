package detect

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

// detectCursor probes the editor's state database, which carries both
// the access token and the local usage counters.
func detectCursor(result *Result) {
	probeCursor(result, cursorStateDBPath())
}

func probeCursor(result *Result, path string) {
	result.check("cursor_web")
	if path == "" || !fileExists(path) {
		return
	}
	log.Printf("[detect] found cursor state db at %s", path)
	result.add("cursor_web", "state_db", path)
}

func cursorStateDBPath() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	var base string
	switch runtime.GOOS {
	case "darwin":
		base = filepath.Join(home, "Library", "Application Support", "Cursor")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			base = filepath.Join(appData, "Cursor")
		} else {
			base = filepath.Join(home, "AppData", "Roaming", "Cursor")
		}
	default:
		base = filepath.Join(home, ".config", "Cursor")
	}
	return filepath.Join(base, "User", "globalStorage", "state.vscdb")
}
