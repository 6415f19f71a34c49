package detect

import (
	"log"
	"os"
)

// detectOllama looks for a local Ollama install. A binary on PATH is
// the strong signal; OLLAMA_HOST alone still counts, since the daemon
// may live on another machine.
func detectOllama(result *Result) {
	result.check("ollama")

	if bin := findBinary("ollama"); bin != "" {
		log.Printf("[detect] found ollama at %s", bin)
		result.add("ollama", "binary", bin)
		return
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		log.Printf("[detect] found OLLAMA_HOST=%s", host)
		result.add("ollama", "env", "OLLAMA_HOST="+host)
	}
}
