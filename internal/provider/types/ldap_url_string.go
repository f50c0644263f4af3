package types

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/types/basetypes"
	"github.com/hashicorp/terraform-plugin-go/tftypes"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

var (
	_ basetypes.StringTypable                    = LDAPURLStringType{}
	_ basetypes.StringValuable                   = LDAPURLStringValue{}
	_ basetypes.StringValuableWithSemanticEquals = LDAPURLStringValue{}
)

// LDAPURLStringType is a custom string type for LDAP URLs. Two values are
// semantically equal when they serialize to the same canonical URL, so
// "ldap://host/dc=x??base" and "ldap://host/dc=x" do not produce a diff.
type LDAPURLStringType struct {
	basetypes.StringType
}

// String returns a human readable string of the type name.
func (t LDAPURLStringType) String() string {
	return "LDAPURLStringType"
}

// ValueType returns the Value type.
func (t LDAPURLStringType) ValueType(ctx context.Context) attr.Value {
	return LDAPURLStringValue{}
}

// Equal returns true if the given type is equivalent.
func (t LDAPURLStringType) Equal(o attr.Type) bool {
	other, ok := o.(LDAPURLStringType)
	if !ok {
		return false
	}

	return t.StringType.Equal(other.StringType)
}

// ValueFromString returns a StringValuable type given a StringValue.
func (t LDAPURLStringType) ValueFromString(ctx context.Context, in basetypes.StringValue) (basetypes.StringValuable, diag.Diagnostics) {
	return LDAPURLStringValue{StringValue: in}, nil
}

// ValueFromTerraform returns a Value given a tftypes.Value.
func (t LDAPURLStringType) ValueFromTerraform(ctx context.Context, in tftypes.Value) (attr.Value, error) {
	sv, err := stringFromTerraform(ctx, t.StringType, in)
	if err != nil {
		return nil, err
	}
	return LDAPURLStringValue{StringValue: sv}, nil
}

// LDAPURLStringValue is an LDAP URL string value compared by canonical form.
type LDAPURLStringValue struct {
	basetypes.StringValue
}

// Equal returns true if the given value is equivalent.
func (v LDAPURLStringValue) Equal(o attr.Value) bool {
	other, ok := o.(LDAPURLStringValue)
	if !ok {
		return false
	}

	return v.StringValue.Equal(other.StringValue)
}

// Type returns the type of the value.
func (v LDAPURLStringValue) Type(ctx context.Context) attr.Type {
	return LDAPURLStringType{}
}

// StringSemanticEquals compares both URLs after parsing. Values that fail to
// parse are only equal to an identical string.
func (v LDAPURLStringValue) StringSemanticEquals(_ context.Context, newValuable basetypes.StringValuable) (bool, diag.Diagnostics) {
	newValue, ok := newValuable.(LDAPURLStringValue)
	if !ok {
		return false, unexpectedValuableDiag("LDAPURLStringValue", newValuable)
	}
	return semanticEquals(v.StringValue, newValue.StringValue, equivalentURLs), nil
}

func equivalentURLs(prior, proposed string) bool {
	priorURL, err := ldapurl.Parse(prior)
	if err != nil {
		return false
	}
	proposedURL, err := ldapurl.Parse(proposed)
	if err != nil {
		return false
	}
	return priorURL.Equal(proposedURL)
}

// ParsedURL parses the value. Null and unknown values yield (nil, nil).
func (v LDAPURLStringValue) ParsedURL(p path.Path) (*ldapurl.URL, diag.Diagnostics) {
	var diags diag.Diagnostics

	if v.IsNull() || v.IsUnknown() {
		return nil, diags
	}

	u, err := ldapurl.Parse(v.ValueString())
	if err != nil {
		diags.AddAttributeError(p, "Invalid LDAP URL", err.Error())
		return nil, diags
	}
	return u, diags
}

// LDAPURLString creates a known LDAPURLStringValue.
func LDAPURLString(value string) LDAPURLStringValue {
	return LDAPURLStringValue{StringValue: basetypes.NewStringValue(value)}
}

// LDAPURLStringNull creates a null LDAPURLStringValue.
func LDAPURLStringNull() LDAPURLStringValue {
	return LDAPURLStringValue{StringValue: basetypes.NewStringNull()}
}

// LDAPURLStringUnknown creates an unknown LDAPURLStringValue.
func LDAPURLStringUnknown() LDAPURLStringValue {
	return LDAPURLStringValue{StringValue: basetypes.NewStringUnknown()}
}
