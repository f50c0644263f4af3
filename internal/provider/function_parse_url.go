package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/function"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

var _ function.Function = &ParseURLFunction{}

func NewParseURLFunction() function.Function {
	return &ParseURLFunction{}
}

// ParseURLFunction implements the parse_url function.
type ParseURLFunction struct{}

// Metadata returns the function name.
func (f ParseURLFunction) Metadata(_ context.Context, req function.MetadataRequest, resp *function.MetadataResponse) {
	resp.Name = "parse_url"
}

// Definition returns the function schema including parameters and return types.
func (f ParseURLFunction) Definition(_ context.Context, req function.DefinitionRequest, resp *function.DefinitionResponse) {
	resp.Definition = function.Definition{
		Summary:     "Parse an LDAP URL into its components",
		Description: "Parses an RFC 2255 LDAP URL of the form ldap://host:port/dn?attributes?scope?filter?extensions and returns an object with its decoded components. The DN and filter are validated. An empty string yields the default URL ldap:///.",
		MarkdownDescription: "Parses an RFC 2255 LDAP URL of the form `ldap://host:port/dn?attributes?scope?filter?extensions` " +
			"and returns an object with its decoded components. The DN and filter are validated.\n\n" +
			"Returned attributes:\n" +
			"- `value` (string): the canonical form of the URL\n" +
			"- `scheme` (string): `ldap` or `ldaps`\n" +
			"- `secure` (bool): whether the scheme is `ldaps`\n" +
			"- `host` (string): host name or IPv4 literal, empty when absent\n" +
			"- `port` (number): explicit port, null when absent\n" +
			"- `host_port` (string): host with explicit or default port, null without a host\n" +
			"- `dn` (string): decoded base DN, null when the URL carries none\n" +
			"- `attributes` (list of string): requested attributes, duplicates removed\n" +
			"- `scope` (string): `base`, `one` or `sub`\n" +
			"- `filter` (string): decoded search filter, null when absent\n" +
			"- `extensions` (list of object): `critical`, `type` and `value` (null when absent)",
		Parameters: []function.Parameter{
			function.StringParameter{
				Name:                "url",
				Description:         "The LDAP URL to parse.",
				MarkdownDescription: "The LDAP URL to parse, e.g. `ldap://ldap.example.com/dc=example,dc=com?cn?sub`.",
			},
		},
		Return: function.ObjectReturn{
			AttributeTypes: urlAttrTypes,
		},
	}
}

// Run implements the function logic.
func (f ParseURLFunction) Run(ctx context.Context, req function.RunRequest, resp *function.RunResponse) {
	var raw string

	resp.Error = function.ConcatFuncErrors(resp.Error, req.Arguments.Get(ctx, &raw))
	if resp.Error != nil {
		return
	}

	ctx = initializeLogging(ctx)
	done := ldapurl.LogFunctionOperation(ctx, "parse_url", map[string]any{
		"input_length": len(raw),
	})

	u, err := ldapurl.Parse(raw)
	done(err)
	if err != nil {
		resp.Error = function.NewArgumentFuncError(0, err.Error())
		return
	}

	result, diags := urlObjectValue(u)
	if diags.HasError() {
		resp.Error = function.FuncErrorFromDiags(ctx, diags)
		return
	}

	resp.Error = resp.Result.Set(ctx, result)
}
