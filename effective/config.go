package effective

import (
	"strings"

	"github.com/kbukum/yake/target"
)

// Config is the merged view of a target and all of its ancestors.
type Config struct {
	Path string
	Name string
	// Env is every ancestor's env followed by the target's own, root first.
	// Duplicates are kept in position; Lookup and EnvMap apply last-wins.
	Env  []string
	Meta map[string]string
	Exec []string
}

// Resolve merges metadata and environment from the root down to path.
func Resolve(tree *target.Tree, path string) (*Config, error) {
	t, err := tree.Lookup(path)
	if err != nil {
		return nil, err
	}
	chain, err := tree.Ancestors(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		chain = append(chain, t)
	}
	if len(chain) == 0 {
		chain = []*target.Target{t}
	}

	cfg := &Config{
		Path: path,
		Name: t.Name,
		Meta: make(map[string]string),
		Exec: append([]string(nil), t.Exec...),
	}
	for _, level := range chain {
		cfg.Env = append(cfg.Env, level.Env...)
		for k, v := range level.Meta {
			cfg.Meta[k] = v
		}
	}
	return cfg, nil
}

// Lookup returns the last value assigned to key in the effective env.
func (c *Config) Lookup(key string) (string, bool) {
	for i := len(c.Env) - 1; i >= 0; i-- {
		k, v, _ := strings.Cut(c.Env[i], "=")
		if k == key {
			return v, true
		}
	}
	return "", false
}

// EnvMap flattens the effective env, later assignments overriding earlier ones.
func (c *Config) EnvMap() map[string]string {
	out := make(map[string]string, len(c.Env))
	for _, kv := range c.Env {
		k, v, _ := strings.Cut(kv, "=")
		out[k] = v
	}
	return out
}

// Scope returns the template scope for this target.
func (c *Config) Scope(params map[string]string) Scope {
	return Scope{
		Meta:   c.Meta,
		Env:    c.EnvMap(),
		Params: params,
		Path:   c.Path,
		Name:   c.Name,
	}
}

// ExpandExec expands every exec line. The first failure is returned with the
// target path filled in.
func (c *Config) ExpandExec(params map[string]string) ([]string, error) {
	scope := c.Scope(params)
	out := make([]string, len(c.Exec))
	for i, line := range c.Exec {
		expanded, err := Expand(line, scope)
		if err != nil {
			if terr, ok := err.(*TemplateError); ok {
				terr.Target = c.Path
			}
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}
