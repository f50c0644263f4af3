package provider

import (
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
	"github.com/isometry/terraform-provider-ldapurl/internal/provider/helpers"
)

// extensionAttrTypes is the object shape of a single URL extension.
var extensionAttrTypes = map[string]attr.Type{
	"critical": types.BoolType,
	"type":     types.StringType,
	"value":    types.StringType,
}

var extensionObjectType = types.ObjectType{AttrTypes: extensionAttrTypes}

// urlAttrTypes is the object shape returned by parse_url.
var urlAttrTypes = map[string]attr.Type{
	"value":      types.StringType,
	"scheme":     types.StringType,
	"secure":     types.BoolType,
	"host":       types.StringType,
	"port":       types.Int64Type,
	"host_port":  types.StringType,
	"dn":         types.StringType,
	"attributes": types.ListType{ElemType: types.StringType},
	"scope":      types.StringType,
	"filter":     types.StringType,
	"extensions": types.ListType{ElemType: extensionObjectType},
}

// extensionModel maps one element of an extensions list.
type extensionModel struct {
	Critical types.Bool   `tfsdk:"critical"`
	Type     types.String `tfsdk:"type"`
	Value    types.String `tfsdk:"value"`
}

// schemeName returns "ldap" or "ldaps".
func schemeName(u *ldapurl.URL) string {
	return strings.TrimSuffix(u.Scheme(), "://")
}

func portValue(u *ldapurl.URL) types.Int64 {
	if u.Port() == ldapurl.PortUnset {
		return types.Int64Null()
	}
	return types.Int64Value(int64(u.Port()))
}

func dnValue(u *ldapurl.URL) types.String {
	if !u.HasDN() {
		return types.StringNull()
	}
	return types.StringValue(u.DNString())
}

func filterValue(u *ldapurl.URL) types.String {
	if !u.HasFilter() {
		return types.StringNull()
	}
	return types.StringValue(u.Filter())
}

func hostPortValue(u *ldapurl.URL) types.String {
	if u.Host() == "" {
		return types.StringNull()
	}
	return types.StringValue(u.HostPort())
}

// extensionsValue converts the URL extensions to a list of objects.
func extensionsValue(u *ldapurl.URL) (types.List, diag.Diagnostics) {
	var diags diag.Diagnostics

	exts := u.Extensions()
	elements := make([]attr.Value, 0, len(exts))
	for _, ext := range exts {
		obj, d := types.ObjectValue(extensionAttrTypes, map[string]attr.Value{
			"critical": types.BoolValue(ext.Critical),
			"type":     types.StringValue(ext.Type),
			"value":    types.StringPointerValue(ext.Value),
		})
		diags.Append(d...)
		elements = append(elements, obj)
	}

	list, d := types.ListValue(extensionObjectType, elements)
	diags.Append(d...)
	return list, diags
}

// urlObjectValue converts a URL to the parse_url result object.
func urlObjectValue(u *ldapurl.URL) (types.Object, diag.Diagnostics) {
	extensions, diags := extensionsValue(u)
	if diags.HasError() {
		return types.ObjectNull(urlAttrTypes), diags
	}

	obj, d := types.ObjectValue(urlAttrTypes, map[string]attr.Value{
		"value":      types.StringValue(u.String()),
		"scheme":     types.StringValue(schemeName(u)),
		"secure":     types.BoolValue(u.IsSecure()),
		"host":       types.StringValue(u.Host()),
		"port":       portValue(u),
		"host_port":  hostPortValue(u),
		"dn":         dnValue(u),
		"attributes": helpers.StringListValue(u.Attributes()),
		"scope":      types.StringValue(u.Scope().String()),
		"filter":     filterValue(u),
		"extensions": extensions,
	})
	diags.Append(d...)
	return obj, diags
}

// extensionsFromModels converts configured extension objects. Null values
// produce extensions without a value; a null critical flag means false.
func extensionsFromModels(models []extensionModel) []ldapurl.Extension {
	exts := make([]ldapurl.Extension, 0, len(models))
	for _, m := range models {
		exts = append(exts, ldapurl.Extension{
			Critical: m.Critical.ValueBool(),
			Type:     m.Type.ValueString(),
			Value:    m.Value.ValueStringPointer(),
		})
	}
	return exts
}

// extensionsFromGo converts extension objects decoded from a dynamic value.
func extensionsFromGo(objects []map[string]any) ([]ldapurl.Extension, error) {
	exts := make([]ldapurl.Extension, 0, len(objects))
	for i, obj := range objects {
		for key := range obj {
			if _, known := extensionAttrTypes[key]; !known {
				return nil, fmt.Errorf("extensions[%d]: unknown attribute %q", i, key)
			}
		}

		extType, ok, err := helpers.StringField(obj, "type")
		if err != nil {
			return nil, fmt.Errorf("extensions[%d]: %w", i, err)
		}
		if !ok {
			return nil, fmt.Errorf("extensions[%d]: type is required", i)
		}

		critical, _, err := helpers.BoolField(obj, "critical")
		if err != nil {
			return nil, fmt.Errorf("extensions[%d]: %w", i, err)
		}

		ext := ldapurl.Extension{Critical: critical, Type: extType}
		value, ok, err := helpers.StringField(obj, "value")
		if err != nil {
			return nil, fmt.Errorf("extensions[%d]: %w", i, err)
		}
		if ok {
			ext.Value = &value
		}
		exts = append(exts, ext)
	}
	return exts, nil
}
