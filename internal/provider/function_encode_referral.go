package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/types"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

var _ function.Function = &EncodeReferralFunction{}

func NewEncodeReferralFunction() function.Function {
	return &EncodeReferralFunction{}
}

// EncodeReferralFunction implements the encode_referral function.
type EncodeReferralFunction struct{}

// Metadata returns the function name.
func (f EncodeReferralFunction) Metadata(_ context.Context, req function.MetadataRequest, resp *function.MetadataResponse) {
	resp.Name = "encode_referral"
}

// Definition returns the function schema including parameters and return types.
func (f EncodeReferralFunction) Definition(_ context.Context, req function.DefinitionRequest, resp *function.DefinitionResponse) {
	resp.Definition = function.Definition{
		Summary:     "Encode LDAP URLs as a BER referral",
		Description: "Validates each LDAP URL and encodes the list as the BER Referral element of an LDAPResult (RFC 4511 section 4.1.10, context tag [3]). Returns the encoding as base64, suitable for directory server fixtures and test harnesses.",
		MarkdownDescription: "Validates each LDAP URL and encodes the list as the BER `Referral` element of an `LDAPResult` " +
			"(RFC 4511 section 4.1.10, context tag `[3]`). Each URL is written in canonical form. " +
			"Returns the encoding as base64, suitable for directory server fixtures and test harnesses.",
		Parameters: []function.Parameter{
			function.ListParameter{
				ElementType:         types.StringType,
				Name:                "urls",
				Description:         "The LDAP URLs to include in the referral. At least one is required.",
				MarkdownDescription: "The LDAP URLs to include in the referral. At least one is required.",
			},
		},
		Return: function.StringReturn{},
	}
}

// Run implements the function logic.
func (f EncodeReferralFunction) Run(ctx context.Context, req function.RunRequest, resp *function.RunResponse) {
	var raw []string

	resp.Error = function.ConcatFuncErrors(resp.Error, req.Arguments.Get(ctx, &raw))
	if resp.Error != nil {
		return
	}

	ctx = initializeLogging(ctx)
	done := ldapurl.LogFunctionOperation(ctx, "encode_referral", map[string]any{
		"url_count": len(raw),
	})

	encoded, err := f.EncodeReferral(raw)
	done(err)
	if err != nil {
		resp.Error = function.NewArgumentFuncError(0, err.Error())
		return
	}

	resp.Error = resp.Result.Set(ctx, types.StringValue(encoded))
}

// EncodeReferral parses each URL and returns the base64 BER encoding of the
// referral.
func (f EncodeReferralFunction) EncodeReferral(raw []string) (string, error) {
	urls := make([]*ldapurl.URL, 0, len(raw))
	for i, s := range raw {
		u, err := ldapurl.Parse(s)
		if err != nil {
			return "", fmt.Errorf("urls[%d]: %w", i, err)
		}
		urls = append(urls, u)
	}

	packet, err := ldapurl.EncodeReferral(urls)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(packet.Bytes()), nil
}
