package types

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types/basetypes"
	"github.com/hashicorp/terraform-plugin-go/tftypes"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

var (
	_ basetypes.StringTypable                    = DNStringType{}
	_ basetypes.StringValuableWithSemanticEquals = DNStringValue{}
)

// DNStringType holds the DN element of an LDAP URL. A DN read back from a
// parsed URL keeps the configured spelling when the two differ only in the
// case of attribute types or in insignificant whitespace.
type DNStringType struct {
	basetypes.StringType
}

func (t DNStringType) String() string { return "DNStringType" }

func (t DNStringType) ValueType(context.Context) attr.Value { return DNStringValue{} }

func (t DNStringType) Equal(o attr.Type) bool {
	other, ok := o.(DNStringType)
	return ok && t.StringType.Equal(other.StringType)
}

func (t DNStringType) ValueFromString(_ context.Context, in basetypes.StringValue) (basetypes.StringValuable, diag.Diagnostics) {
	return DNStringValue{StringValue: in}, nil
}

func (t DNStringType) ValueFromTerraform(ctx context.Context, in tftypes.Value) (attr.Value, error) {
	sv, err := stringFromTerraform(ctx, t.StringType, in)
	if err != nil {
		return nil, err
	}
	return DNStringValue{StringValue: sv}, nil
}

// DNStringValue is a DN whose semantic equality is decided by go-ldap.
type DNStringValue struct {
	basetypes.StringValue
}

func (v DNStringValue) Equal(o attr.Value) bool {
	other, ok := o.(DNStringValue)
	return ok && v.StringValue.Equal(other.StringValue)
}

func (v DNStringValue) Type(context.Context) attr.Type { return DNStringType{} }

// StringSemanticEquals reports whether both values name the same entry.
// Strings that do not parse as DNs only match themselves.
func (v DNStringValue) StringSemanticEquals(_ context.Context, newValuable basetypes.StringValuable) (bool, diag.Diagnostics) {
	newValue, ok := newValuable.(DNStringValue)
	if !ok {
		return false, unexpectedValuableDiag("DNStringValue", newValuable)
	}
	return semanticEquals(v.StringValue, newValue.StringValue, ldapurl.EqualDN), nil
}

// Normalized upper-cases the attribute types of the DN. Unparseable values
// come back as written; null and unknown give "".
func (v DNStringValue) Normalized() string {
	if v.IsNull() || v.IsUnknown() {
		return ""
	}
	if normalized, err := ldapurl.NormalizeDNCase(v.ValueString()); err == nil {
		return normalized
	}
	return v.ValueString()
}

func DNString(value string) DNStringValue {
	return DNStringValue{StringValue: basetypes.NewStringValue(value)}
}

func DNStringNull() DNStringValue {
	return DNStringValue{StringValue: basetypes.NewStringNull()}
}
