package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

var _ validator.String = filterValidator{}

// filterValidator validates RFC 4515 search filter syntax.
type filterValidator struct{}

func (v filterValidator) Description(_ context.Context) string {
	return "value must be a valid LDAP search filter"
}

func (v filterValidator) MarkdownDescription(_ context.Context) string {
	return "value must be a valid LDAP search filter, e.g. `(objectClass=person)`"
}

func (v filterValidator) ValidateString(ctx context.Context, request validator.StringRequest, response *validator.StringResponse) {
	if request.ConfigValue.IsNull() || request.ConfigValue.IsUnknown() {
		return
	}

	value := request.ConfigValue.ValueString()
	if value == "" {
		// An empty filter means "no filter" in an LDAP URL.
		return
	}

	if err := ldapurl.ValidateFilter(value); err != nil {
		response.Diagnostics.AddAttributeError(
			request.Path,
			"Invalid Search Filter",
			fmt.Sprintf("The value %q is not a valid LDAP search filter: %s", value, err.Error()),
		)
	}
}

// IsValidFilter returns a validator which ensures that any configured
// attribute value is an LDAP search filter accepted by go-ldap. The empty
// string is accepted.
//
// Unknown values and null values are skipped from validation.
func IsValidFilter() validator.String {
	return filterValidator{}
}
