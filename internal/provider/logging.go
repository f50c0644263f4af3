package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// initializeLogging initializes the provider subsystem for consistent logging.
// This should be called at the beginning of each data source Read method
// and function Run method.
func initializeLogging(ctx context.Context) context.Context {
	// Pattern: TF_LOG_PROVIDER_LDAPURL_<SUBSYSTEM>
	return tflog.NewSubsystem(ctx, "provider",
		tflog.WithLevelFromEnv("TF_LOG_PROVIDER_LDAPURL_PROVIDER"))
}
