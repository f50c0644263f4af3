package ldap

import (
	"context"
	"strings"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// ProviderData carries provider-level URL settings to data sources.
type ProviderData struct {
	// ForceScopeRendering makes serialized URLs always carry the scope
	// token, even when it is the default "base".
	ForceScopeRendering bool

	// DefaultScheme is used when a URL is assembled from components and no
	// scheme is given. Always SchemeLDAP or SchemeLDAPS.
	DefaultScheme string
}

// NewProviderData creates provider data, normalizing defaultScheme.
func NewProviderData(forceScopeRendering bool, defaultScheme string) *ProviderData {
	return &ProviderData{
		ForceScopeRendering: forceScopeRendering,
		DefaultScheme:       NormalizeScheme(defaultScheme),
	}
}

// Apply copies the provider-level serialization settings onto u.
func (pd *ProviderData) Apply(ctx context.Context, u *URL) {
	if pd == nil || u == nil {
		return
	}

	if pd.ForceScopeRendering && !u.ForceScopeRendering() {
		tflog.SubsystemTrace(ctx, "provider", "Forcing scope rendering from provider configuration")
		u.SetForceScopeRendering(true)
	}
}

// NormalizeScheme maps the bare or full forms of a scheme ("ldaps",
// "LDAPS://") to SchemeLDAP or SchemeLDAPS. Anything else yields SchemeLDAP.
func NormalizeScheme(scheme string) string {
	s := strings.ToLower(strings.TrimSpace(scheme))
	s = strings.TrimSuffix(s, "://")
	if s == "ldaps" {
		return SchemeLDAPS
	}
	return SchemeLDAP
}
