package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

// Ensure the implementation satisfies the expected interface.
var _ validator.String = baseDNValidator{}

// baseDNValidator validates the DN element of an LDAP URL.
type baseDNValidator struct{}

// Description describes the validation in plain text.
func (v baseDNValidator) Description(_ context.Context) string {
	return "value must be a valid Distinguished Name (DN) or empty"
}

// MarkdownDescription describes the validation in Markdown.
func (v baseDNValidator) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

// ValidateString performs the validation.
func (v baseDNValidator) ValidateString(ctx context.Context, request validator.StringRequest, response *validator.StringResponse) {
	if request.ConfigValue.IsNull() || request.ConfigValue.IsUnknown() {
		return
	}

	value := request.ConfigValue.ValueString()

	if _, err := ldapurl.ParseDN(value); err != nil {
		response.Diagnostics.AddAttributeError(
			request.Path,
			"Invalid Distinguished Name",
			fmt.Sprintf("The value %q is not a valid Distinguished Name format: %s", value, err.Error()),
		)
	}
}

// IsValidBaseDN returns a validator which ensures that any configured
// attribute value is a valid Distinguished Name (DN). The empty DN is
// accepted: an LDAP URL uses it to name the root DSE.
//
// Unknown values and null values are skipped from validation.
func IsValidBaseDN() validator.String {
	return baseDNValidator{}
}
