package ldap

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		input    string
		expected Scope
		wantErr  bool
	}{
		{input: "base", expected: ScopeBase},
		{input: "BASE", expected: ScopeBase},
		{input: "one", expected: ScopeOneLevel},
		{input: "One", expected: ScopeOneLevel},
		{input: "sub", expected: ScopeSubtree},
		{input: "SuB", expected: ScopeSubtree},
		{input: "", wantErr: true},
		{input: "subtree", wantErr: true},
		{input: "children", wantErr: true},
		{input: " sub", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			scope, err := ParseScope(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, scope)
		})
	}
}

func TestScope_Conversions(t *testing.T) {
	assert.Equal(t, "base", ScopeBase.String())
	assert.Equal(t, "one", ScopeOneLevel.String())
	assert.Equal(t, "sub", ScopeSubtree.String())
	assert.Equal(t, "Scope(9)", Scope(9).String())

	assert.Equal(t, ldap.ScopeBaseObject, ScopeBase.LDAPScope())
	assert.Equal(t, ldap.ScopeSingleLevel, ScopeOneLevel.LDAPScope())
	assert.Equal(t, ldap.ScopeWholeSubtree, ScopeSubtree.LDAPScope())

	assert.Equal(t, "Whole Subtree", ScopeSubtree.Description())
	assert.Equal(t, "Scope(9)", Scope(9).Description())

	assert.True(t, ScopeOneLevel.IsValid())
	assert.False(t, Scope(ldap.ScopeChildren).IsValid())

	assert.Equal(t, []string{"base", "one", "sub"}, ScopeTokens())
}
