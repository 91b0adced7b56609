package auth

import (
	"fmt"
	"strings"
)

// PolicyRule exempts a path (exact, or a "/prefix/*" wildcard covering the
// prefix itself and everything under it) for a set of HTTP methods. An empty
// method list means every method.
type PolicyRule struct {
	Path    string
	Methods []string
}

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

type compiledRule struct {
	exact   string
	prefix  string
	methods map[string]bool
}

func (r compiledRule) matches(method, path string) bool {
	if len(r.methods) > 0 && !r.methods[method] {
		return false
	}
	if r.prefix != "" {
		return path == r.prefix || strings.HasPrefix(path, r.prefix+"/")
	}
	return path == r.exact
}

// Policy is the compiled exemption table. It is built once at startup and is
// safe for unsynchronized concurrent reads.
type Policy struct {
	rules []compiledRule
}

// NewPolicy validates and compiles the rule set. Invalid patterns or method
// names are configuration errors and fail construction. Exemption is a union
// of matches, so rule order never changes the outcome.
func NewPolicy(rules []PolicyRule) (*Policy, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, rule := range rules {
		if rule.Path == "" {
			return nil, fmt.Errorf("policy rule has empty path")
		}
		if !strings.HasPrefix(rule.Path, "/") {
			return nil, fmt.Errorf("policy rule path %q must start with /", rule.Path)
		}
		if i := strings.Index(rule.Path, "*"); i >= 0 && i != len(rule.Path)-1 {
			return nil, fmt.Errorf("policy rule path %q: wildcard is only allowed as a trailing /*", rule.Path)
		}

		cr := compiledRule{methods: make(map[string]bool, len(rule.Methods))}
		for _, m := range rule.Methods {
			upper := strings.ToUpper(m)
			if !validMethods[upper] {
				return nil, fmt.Errorf("policy rule path %q: unknown HTTP method %q", rule.Path, m)
			}
			cr.methods[upper] = true
		}

		if strings.HasSuffix(rule.Path, "/*") {
			cr.prefix = strings.TrimSuffix(rule.Path, "/*")
			if cr.prefix == "" {
				return nil, fmt.Errorf("policy rule path %q: use an exact rule for the root", rule.Path)
			}
		} else {
			cr.exact = rule.Path
		}

		compiled = append(compiled, cr)
	}

	return &Policy{rules: compiled}, nil
}

// IsExempt reports whether a request may bypass authentication. Any matching
// rule exempts the request.
func (p *Policy) IsExempt(method, path string) bool {
	for _, rule := range p.rules {
		if rule.matches(method, path) {
			return true
		}
	}
	return false
}

// DefaultRules mirrors the deployed exemption list: the health endpoints, the
// public resource trees, and the credential exchange endpoints themselves.
func DefaultRules() []PolicyRule {
	return []PolicyRule{
		{Path: "/", Methods: []string{"GET"}},
		{Path: "/healthz", Methods: []string{"GET"}},
		{Path: "/metrics", Methods: []string{"GET"}},
		{Path: "/api/v1/events/*"},
		{Path: "/api/v1/course/*"},
		{Path: "/api/v1/sentiments/*", Methods: []string{"GET", "POST", "OPTIONS"}},
		{Path: "/api/v1/users/login", Methods: []string{"POST"}},
		{Path: "/api/v1/users/register", Methods: []string{"POST"}},
		{Path: "/api/v1/users/google_login", Methods: []string{"POST"}},
	}
}
