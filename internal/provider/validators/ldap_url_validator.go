package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

var _ validator.String = ldapURLValidator{}

// ldapURLValidator validates that a string parses as an RFC 2255 LDAP URL.
type ldapURLValidator struct{}

func (v ldapURLValidator) Description(_ context.Context) string {
	return "value must be a valid LDAP URL (ldap:// or ldaps://)"
}

func (v ldapURLValidator) MarkdownDescription(_ context.Context) string {
	return "value must be a valid LDAP URL (`ldap://` or `ldaps://`)"
}

func (v ldapURLValidator) ValidateString(ctx context.Context, request validator.StringRequest, response *validator.StringResponse) {
	if request.ConfigValue.IsNull() || request.ConfigValue.IsUnknown() {
		return
	}

	value := request.ConfigValue.ValueString()
	if _, err := ldapurl.Parse(value); err != nil {
		response.Diagnostics.AddAttributeError(
			request.Path,
			"Invalid LDAP URL",
			fmt.Sprintf("The value %q is not a valid LDAP URL: %s (failed in %s)",
				value, err.Error(), ldapurl.GetErrorComponent(err)),
		)
	}
}

// IsValidLDAPURL returns a validator which ensures that any configured
// attribute value is a syntactically valid LDAP URL, including its DN and
// filter.
//
// Unknown values and null values are skipped from validation.
func IsValidLDAPURL() validator.String {
	return ldapURLValidator{}
}
