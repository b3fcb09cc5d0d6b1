package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint
// configuration. A config path ending in "/" matches any path under that
// prefix; otherwise the path must match exactly. Returns nil when nothing
// matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	var best *EndpointConfig
	bestLen := -1
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if strings.HasSuffix(cfg.Path, "/") {
			if strings.HasPrefix(path, cfg.Path) && len(cfg.Path) > bestLen {
				best = cfg
				bestLen = len(cfg.Path)
			}
			continue
		}
		if path == cfg.Path && len(cfg.Path) > bestLen {
			best = cfg
			bestLen = len(cfg.Path)
		}
	}
	return best
}
