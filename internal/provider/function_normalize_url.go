package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/types"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

var _ function.Function = &NormalizeURLFunction{}

func NewNormalizeURLFunction() function.Function {
	return &NormalizeURLFunction{}
}

// NormalizeURLFunction implements the normalize_url function.
type NormalizeURLFunction struct{}

// Metadata returns the function name.
func (f NormalizeURLFunction) Metadata(_ context.Context, req function.MetadataRequest, resp *function.MetadataResponse) {
	resp.Name = "normalize_url"
}

// Definition returns the function schema including parameters and return types.
func (f NormalizeURLFunction) Definition(_ context.Context, req function.DefinitionRequest, resp *function.DefinitionResponse) {
	resp.Definition = function.Definition{
		Summary:     "Normalize an LDAP URL to its canonical form",
		Description: "Parses an LDAP URL and serializes it again: percent-encoding is rewritten with upper-case hex, the scope token is lower-cased, duplicate attributes are dropped and trailing default components are removed.",
		MarkdownDescription: "Parses an LDAP URL and serializes it again:\n\n" +
			"- percent-encoding is rewritten with upper-case hex\n" +
			"- the scope token is lower-cased\n" +
			"- duplicate attributes are dropped\n" +
			"- trailing default components are removed (`ldap://h/dc=x??base` becomes `ldap://h/dc=x`)",
		Parameters: []function.Parameter{
			function.StringParameter{
				Name:                "url",
				Description:         "The LDAP URL to normalize.",
				MarkdownDescription: "The LDAP URL to normalize.",
			},
		},
		Return: function.StringReturn{},
	}
}

// Run implements the function logic.
func (f NormalizeURLFunction) Run(ctx context.Context, req function.RunRequest, resp *function.RunResponse) {
	var raw string

	resp.Error = function.ConcatFuncErrors(resp.Error, req.Arguments.Get(ctx, &raw))
	if resp.Error != nil {
		return
	}

	ctx = initializeLogging(ctx)
	done := ldapurl.LogFunctionOperation(ctx, "normalize_url", map[string]any{
		"input_length": len(raw),
	})

	u, err := ldapurl.Parse(raw)
	done(err)
	if err != nil {
		resp.Error = function.NewArgumentFuncError(0, err.Error())
		return
	}

	resp.Error = resp.Result.Set(ctx, types.StringValue(u.String()))
}
