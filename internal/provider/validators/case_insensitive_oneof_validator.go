package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// Ensure the implementation satisfies the expected interface.
var _ validator.String = caseInsensitiveOneOfValidator{}

// caseInsensitiveOneOfValidator validates that a string matches one of the
// allowed tokens, ignoring case and surrounding whitespace. LDAP URL tokens
// such as the scope ("base", "one", "sub") are case-insensitive on the wire.
type caseInsensitiveOneOfValidator struct {
	validValues []string
	lookup      map[string]struct{}
}

// Description describes the validation in plain text.
func (v caseInsensitiveOneOfValidator) Description(_ context.Context) string {
	return fmt.Sprintf("value must be one of: %s (case-insensitive)", strings.Join(v.validValues, ", "))
}

// MarkdownDescription describes the validation in Markdown.
func (v caseInsensitiveOneOfValidator) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

// ValidateString performs the validation.
func (v caseInsensitiveOneOfValidator) ValidateString(ctx context.Context, request validator.StringRequest, response *validator.StringResponse) {
	if request.ConfigValue.IsNull() || request.ConfigValue.IsUnknown() {
		return
	}

	value := request.ConfigValue.ValueString()
	if _, ok := v.lookup[strings.ToLower(strings.TrimSpace(value))]; ok {
		return
	}

	response.Diagnostics.AddAttributeError(
		request.Path,
		"Invalid Value",
		fmt.Sprintf(
			"The value %q is not valid. Must be one of: %s (case-insensitive)",
			value,
			strings.Join(v.validValues, ", "),
		),
	)
}

// CaseInsensitiveOneOf returns a validator which ensures that any configured
// attribute value matches one of the provided values, ignoring case differences
// (e.g., "sub", "SUB" and "Sub" all match "sub").
//
// Unknown values and null values are skipped from validation.
func CaseInsensitiveOneOf(values ...string) validator.String {
	lookup := make(map[string]struct{}, len(values))
	for _, value := range values {
		lookup[strings.ToLower(value)] = struct{}{}
	}

	return caseInsensitiveOneOfValidator{
		validValues: values,
		lookup:      lookup,
	}
}
