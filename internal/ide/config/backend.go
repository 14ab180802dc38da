package config

import (
	"ojide/internal/ide/judge"
	"ojide/internal/ide/judge/judge0"
	"ojide/internal/ide/judge/oj"
)

// NewBackend builds the judge client selected by cfg.
func NewBackend(cfg Config) judge.Backend {
	if cfg.Backend == oj.Name {
		return oj.New(oj.Config{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}
	return judge0.New(judge0.Config{
		BaseURL: cfg.BaseURL,
		Base64:  cfg.Judge0.Base64 == nil || *cfg.Judge0.Base64,
		Wait:    cfg.Judge0.Wait != nil && *cfg.Judge0.Wait,
		Headers: cfg.Judge0Headers(),
		Timeout: cfg.Timeout,
	})
}
