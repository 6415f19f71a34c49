package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/quotadeck/internal/config"
	"github.com/janekbaraniewski/quotadeck/internal/core"
	"github.com/janekbaraniewski/quotadeck/internal/detect"
	"github.com/janekbaraniewski/quotadeck/internal/providers"
	"github.com/janekbaraniewski/quotadeck/internal/version"
)

func main() {
	if os.Getenv("QUOTADECK_DEBUG") == "" {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	var (
		once     bool
		demo     bool
		interval time.Duration
	)

	root := cobra.Command{
		Use:     "quotadeck",
		Short:   "QuotaDeck is a terminal dashboard for remaining quota across AI providers.",
		Version: version.String(),
		Run: func(_ *cobra.Command, _ []string) {
			run(once, demo, interval)
		},
	}
	root.Flags().BoolVar(&once, "once", false, "query every provider once, print a plain report, and exit")
	root.Flags().BoolVar(&demo, "demo", false, "use canned demo providers instead of real ones")
	root.Flags().DurationVar(&interval, "interval", 0, "auto-refresh interval (overrides the configured value)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(once, demo bool, interval time.Duration) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	var registry []core.Provider
	if demo {
		registry = providers.Demo()
	} else {
		if cfg.AutoDetect {
			cfg = applyDetection(cfg)
		}
		creds, err := config.LoadCredentials()
		if err != nil {
			log.Printf("credentials: %v", err)
		}
		registry = providers.FromConfig(cfg, creds)
	}

	if len(registry) == 0 {
		printOnboarding()
		os.Exit(0)
	}

	engine := core.NewEngine(registry)

	if once {
		os.Exit(runOnce(engine))
	}

	if interval <= 0 {
		interval = cfg.RefreshInterval()
	}
	runDashboard(cfg, engine, interval, demo)
}

// applyDetection turns off providers whose credentials and tooling are
// nowhere to be found. On the very first run the suggestions are
// persisted so later starts load them straight from the file.
func applyDetection(cfg config.Config) config.Config {
	_, statErr := os.Stat(config.ConfigPath())
	firstRun := os.IsNotExist(statErr)

	result := detect.AutoDetect()
	if os.Getenv("QUOTADECK_DEBUG") != "" {
		fmt.Fprint(os.Stderr, result.Summary())
	}

	cfg = result.Apply(cfg)
	if firstRun {
		if err := config.Save(cfg); err != nil {
			log.Printf("persist detection results: %v", err)
		}
	}
	return cfg
}

func printOnboarding() {
	fmt.Println("⚡ QuotaDeck — no providers enabled or detected.")
	fmt.Println()
	fmt.Printf("Config path: %s\n\n", config.ConfigPath())
	fmt.Println("Auto-detection checks for:")
	fmt.Println("  • OPENAI_API_KEY / ANTHROPIC_API_KEY / OPENROUTER_API_KEY")
	fmt.Println("  • ollama binary or OLLAMA_HOST")
	fmt.Println("  • GitHub Copilot credentials (apps.json / hosts.json)")
	fmt.Println("  • Claude desktop cookie store (macOS)")
	fmt.Println("  • Cursor editor state database")
	fmt.Println()
	fmt.Println("Set any of the above, or enable a provider explicitly:")
	fmt.Printf("  mkdir -p %s\n", config.ConfigDir())
	fmt.Printf("  cat > %s <<'EOF'\n", config.ConfigPath())
	fmt.Print(`{
  "auto_detect": false,
  "providers": {
    "openai": {"enabled": true, "api_key_env": "OPENAI_API_KEY"}
  }
}
`)
	fmt.Println("EOF")
	fmt.Println()
	fmt.Println("Or take a look around with canned data:  quotadeck --demo")
}
