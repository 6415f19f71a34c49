// Package demo provides canned providers for screenshots and a first
// look at the dashboard without any credentials configured.
package demo

import (
	"context"
	"time"

	"github.com/janekbaraniewski/quotadeck/internal/core"
	"github.com/janekbaraniewski/quotadeck/internal/providers/providerbase"
	"github.com/janekbaraniewski/quotadeck/internal/providers/shared"
)

// queryDelay keeps the loading spinner visible for a beat in demo mode.
const queryDelay = 200 * time.Millisecond

type Provider struct {
	providerbase.Base
	text string
}

func (p *Provider) Query(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(queryDelay):
	}
	return p.text, nil
}

func canned(id, label string, build func(r *shared.Report)) *Provider {
	var r shared.Report
	build(&r)
	return &Provider{
		Base: providerbase.New(id, label),
		text: r.String(),
	}
}

// Providers returns one healthy, one degraded, and one failed provider,
// covering every status the dashboard can render.
func Providers() []core.Provider {
	return []core.Provider{
		canned("demo_aurora", "Aurora", func(r *shared.Report) {
			r.Remaining("Requests", 80)
			r.Remaining("Tokens", 60)
			r.Remaining("Credits", 40)
			r.Linef("Reset", "in 2h10m0s")
		}),
		canned("demo_basalt", "Basalt", func(r *shared.Report) {
			r.Remaining("Requests", 25)
			r.Skipped("Quota", "no token")
		}),
		canned("demo_cinder", "Cinder", func(r *shared.Report) {
			r.Linef("Status", "backend unavailable")
		}),
	}
}
