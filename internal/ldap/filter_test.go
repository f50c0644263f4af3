package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		wantErr bool
	}{
		{name: "presence", filter: "(objectClass=*)"},
		{name: "equality", filter: "(cn=John Doe)"},
		{name: "and", filter: "(&(objectClass=person)(uid=jdoe))"},
		{name: "or with not", filter: "(|(cn=a*)(!(sn=b)))"},
		{name: "substring", filter: "(cn=*oh*n)"},
		{name: "extensible match", filter: "(cn:caseExactMatch:=Fred)"},
		{name: "escaped value", filter: `(cn=a\2ab)`},
		{name: "missing parentheses", filter: "objectClass=*", wantErr: true},
		{name: "unbalanced", filter: "(cn=a", wantErr: true},
		{name: "trailing garbage", filter: "(cn=a)x", wantErr: true},
		{name: "empty", filter: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilter(tt.filter)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			assert.NoError(t, err)
		})
	}
}
