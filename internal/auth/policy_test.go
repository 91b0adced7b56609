package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyExactAndWildcard(t *testing.T) {
	policy, err := NewPolicy([]PolicyRule{
		{Path: "/healthz", Methods: []string{"GET"}},
		{Path: "/api/v1/events/*"},
		{Path: "/api/v1/sentiments/*", Methods: []string{"GET", "POST"}},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		exempt bool
	}{
		{"exact match", "GET", "/healthz", true},
		{"exact match wrong method", "POST", "/healthz", false},
		{"wildcard covers prefix itself", "GET", "/api/v1/events", true},
		{"wildcard covers children", "DELETE", "/api/v1/events/abc-123", true},
		{"wildcard covers nested children", "GET", "/api/v1/events/abc/attachments", true},
		{"wildcard does not match sibling prefix", "GET", "/api/v1/eventsextra", false},
		{"method-limited wildcard allows listed method", "POST", "/api/v1/sentiments/analyze", true},
		{"method-limited wildcard rejects other method", "DELETE", "/api/v1/sentiments/abc", false},
		{"unlisted path", "GET", "/api/v1/users", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exempt, policy.IsExempt(tt.method, tt.path))
		})
	}
}

func TestPolicyUnionOfRules(t *testing.T) {
	// The same path covered by two rules stays exempt regardless of order.
	ruleA := PolicyRule{Path: "/api/v1/course/*", Methods: []string{"GET"}}
	ruleB := PolicyRule{Path: "/api/v1/course", Methods: []string{"GET", "POST"}}

	forward, err := NewPolicy([]PolicyRule{ruleA, ruleB})
	require.NoError(t, err)
	backward, err := NewPolicy([]PolicyRule{ruleB, ruleA})
	require.NoError(t, err)

	for _, p := range []*Policy{forward, backward} {
		assert.True(t, p.IsExempt("GET", "/api/v1/course"))
		assert.True(t, p.IsExempt("POST", "/api/v1/course"))
		assert.True(t, p.IsExempt("GET", "/api/v1/course/abc"))
		assert.False(t, p.IsExempt("POST", "/api/v1/course/abc"))
	}
}

func TestPolicyRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule PolicyRule
	}{
		{"empty path", PolicyRule{Path: ""}},
		{"relative path", PolicyRule{Path: "api/v1/events"}},
		{"interior wildcard", PolicyRule{Path: "/api/*/events"}},
		{"bare root wildcard", PolicyRule{Path: "/*"}},
		{"unknown method", PolicyRule{Path: "/healthz", Methods: []string{"FETCH"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolicy([]PolicyRule{tt.rule})
			assert.Error(t, err)
		})
	}
}

func TestDefaultRulesCoverPublicSurface(t *testing.T) {
	policy, err := NewPolicy(DefaultRules())
	require.NoError(t, err)

	// Public surface.
	assert.True(t, policy.IsExempt("GET", "/"))
	assert.True(t, policy.IsExempt("GET", "/healthz"))
	assert.True(t, policy.IsExempt("GET", "/metrics"))
	assert.True(t, policy.IsExempt("POST", "/api/v1/users/login"))
	assert.True(t, policy.IsExempt("POST", "/api/v1/users/register"))
	assert.True(t, policy.IsExempt("POST", "/api/v1/users/google_login"))
	assert.True(t, policy.IsExempt("POST", "/api/v1/events"))
	assert.True(t, policy.IsExempt("DELETE", "/api/v1/events/abc"))
	assert.True(t, policy.IsExempt("GET", "/api/v1/course"))
	assert.True(t, policy.IsExempt("POST", "/api/v1/sentiments/analyze"))

	// Gated surface.
	assert.False(t, policy.IsExempt("GET", "/api/v1/users"))
	assert.False(t, policy.IsExempt("GET", "/api/v1/users/me"))
	assert.False(t, policy.IsExempt("DELETE", "/api/v1/sentiments/abc"))
	assert.False(t, policy.IsExempt("GET", "/api/v1/users/login"))
}
