package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/types"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
	"github.com/isometry/terraform-provider-ldapurl/internal/provider/helpers"
)

var _ function.Function = &DecodeReferralFunction{}

func NewDecodeReferralFunction() function.Function {
	return &DecodeReferralFunction{}
}

// DecodeReferralFunction implements the decode_referral function.
type DecodeReferralFunction struct{}

// Metadata returns the function name.
func (f DecodeReferralFunction) Metadata(_ context.Context, req function.MetadataRequest, resp *function.MetadataResponse) {
	resp.Name = "decode_referral"
}

// Definition returns the function schema including parameters and return types.
func (f DecodeReferralFunction) Definition(_ context.Context, req function.DefinitionRequest, resp *function.DefinitionResponse) {
	resp.Definition = function.Definition{
		Summary:     "Decode a BER referral into LDAP URLs",
		Description: "Decodes a base64 BER Referral ([3]) or SearchResultReference ([APPLICATION 19]) element and returns the canonical form of every LDAP URL it carries. Every URL must parse.",
		MarkdownDescription: "Decodes a base64 BER `Referral` (`[3]`) or `SearchResultReference` (`[APPLICATION 19]`) element " +
			"and returns the canonical form of every LDAP URL it carries. Every URL must parse.",
		Parameters: []function.Parameter{
			function.StringParameter{
				Name:                "encoded",
				Description:         "Base64 encoding of the BER element.",
				MarkdownDescription: "Base64 encoding of the BER element, as produced by `encode_referral`.",
			},
		},
		Return: function.ListReturn{
			ElementType: types.StringType,
		},
	}
}

// Run implements the function logic.
func (f DecodeReferralFunction) Run(ctx context.Context, req function.RunRequest, resp *function.RunResponse) {
	var encoded string

	resp.Error = function.ConcatFuncErrors(resp.Error, req.Arguments.Get(ctx, &encoded))
	if resp.Error != nil {
		return
	}

	ctx = initializeLogging(ctx)
	done := ldapurl.LogFunctionOperation(ctx, "decode_referral", map[string]any{
		"input_length": len(encoded),
	})

	urls, err := f.DecodeReferral(encoded)
	done(err)
	if err != nil {
		resp.Error = function.NewArgumentFuncError(0, err.Error())
		return
	}

	resp.Error = resp.Result.Set(ctx, helpers.StringListValue(urls))
}

// DecodeReferral decodes base64 BER and returns each URL in canonical form.
func (f DecodeReferralFunction) DecodeReferral(encoded string) ([]string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}

	urls, err := ldapurl.DecodeReferral(data)
	if err != nil {
		return nil, err
	}

	result := make([]string, len(urls))
	for i, u := range urls {
		result[i] = u.String()
	}
	return result, nil
}
