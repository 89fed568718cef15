package config

import "sync/atomic"

// Provider gives concurrent readers a consistent snapshot of the config.
// Handlers call Get per request; Update swaps the whole pointer atomically.
type Provider struct {
	cfg atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		panic("config: NewProvider requires a non-nil config")
	}
	p := &Provider{}
	p.cfg.Store(cfg)
	return p
}

func (p *Provider) Get() *Config {
	return p.cfg.Load()
}

func (p *Provider) Update(cfg *Config) {
	if cfg == nil {
		panic("config: Update requires a non-nil config")
	}
	p.cfg.Store(cfg)
}
