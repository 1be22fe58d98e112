package llm

import "strings"

// Model identifiers travel in OpenRouter's provider/model form, e.g.
// "openai/gpt-4o-mini". Aliases from the models map resolve through their
// ModelConfig; anything already qualified passes through untouched.

// ResolveModelID returns the fully qualified identifier for an alias.
func ResolveModelID(alias string, cfg ModelConfig) string {
	alias = strings.TrimSpace(alias)
	if strings.Contains(alias, "/") {
		return alias
	}

	name := strings.TrimSpace(cfg.ModelName)
	if name == "" {
		name = alias
	}
	provider := strings.TrimSpace(cfg.Provider)
	if provider == "" || strings.Contains(name, "/") {
		return name
	}
	return provider + "/" + name
}

// ParseModelID splits a qualified identifier into provider and model name.
// An unqualified identifier yields an empty provider.
func ParseModelID(model string) (provider, name string) {
	if before, after, found := strings.Cut(model, "/"); found {
		return before, after
	}
	return "", model
}
