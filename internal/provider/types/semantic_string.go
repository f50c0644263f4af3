package types

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types/basetypes"
	"github.com/hashicorp/terraform-plugin-go/tftypes"
)

// stringFromTerraform converts a raw Terraform value with the embedded
// string type so the custom types only have to wrap the result.
func stringFromTerraform(ctx context.Context, st basetypes.StringType, in tftypes.Value) (basetypes.StringValue, error) {
	attrValue, err := st.ValueFromTerraform(ctx, in)
	if err != nil {
		return basetypes.StringValue{}, err
	}

	sv, ok := attrValue.(basetypes.StringValue)
	if !ok {
		return basetypes.StringValue{}, fmt.Errorf("expected basetypes.StringValue, got: %T", attrValue)
	}
	return sv, nil
}

// semanticEquals applies equivalent to two known, non-identical strings.
// Null or unknown on either side falls back to exact equality.
func semanticEquals(prior, proposed basetypes.StringValue, equivalent func(prior, proposed string) bool) bool {
	if prior.IsNull() || prior.IsUnknown() || proposed.IsNull() || proposed.IsUnknown() {
		return prior.Equal(proposed)
	}
	if prior.ValueString() == proposed.ValueString() {
		return true
	}
	return equivalent(prior.ValueString(), proposed.ValueString())
}

func unexpectedValuableDiag(expected string, got basetypes.StringValuable) diag.Diagnostics {
	var diags diag.Diagnostics
	diags.AddError(
		"Semantic Equality Check Error",
		"An unexpected value type was received while attempting to perform semantic equality checks. "+
			"This is always an error in the provider. Please report the following to the provider developer:\n\n"+
			fmt.Sprintf("Expected %s, but got: %T", expected, got),
	)
	return diags
}
