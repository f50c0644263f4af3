package provider

import (
	"context"
	"os"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
	"github.com/isometry/terraform-provider-ldapurl/internal/provider/validators"
)

// Environment variables consulted when the provider block leaves a setting unset.
const (
	EnvForceScopeRendering = "LDAPURL_FORCE_SCOPE_RENDERING"
	EnvDefaultScheme       = "LDAPURL_DEFAULT_SCHEME"
)

// Ensure LDAPURLProvider satisfies various provider interfaces.
var _ provider.Provider = &LDAPURLProvider{}
var _ provider.ProviderWithFunctions = &LDAPURLProvider{}

// LDAPURLProvider defines the provider implementation.
type LDAPURLProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
}

// LDAPURLProviderModel describes the provider data model.
type LDAPURLProviderModel struct {
	ForceScopeRendering types.Bool   `tfsdk:"force_scope_rendering"`
	DefaultScheme       types.String `tfsdk:"default_scheme"`
}

func (p *LDAPURLProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "ldapurl"
	resp.Version = p.version
}

func (p *LDAPURLProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "The LDAP URL provider parses, validates, builds and normalizes RFC 2255 LDAP URLs " +
			"(`ldap://host:port/dn?attributes?scope?filter?extensions`). It never contacts a directory server.",
		Attributes: map[string]schema.Attribute{
			"force_scope_rendering": schema.BoolAttribute{
				MarkdownDescription: "Always include the scope token when data sources serialize a URL, even when it is the default `base`. " +
					"Defaults to `false`. Can be set via the `LDAPURL_FORCE_SCOPE_RENDERING` environment variable.",
				Optional: true,
			},
			"default_scheme": schema.StringAttribute{
				MarkdownDescription: "Scheme used by data sources when a URL is assembled from components without an explicit scheme. " +
					"One of `ldap` or `ldaps`. Defaults to `ldap`. Can be set via the `LDAPURL_DEFAULT_SCHEME` environment variable.",
				Optional: true,
				Validators: []validator.String{
					validators.CaseInsensitiveOneOf("ldap", "ldaps"),
				},
			},
		},
	}
}

func (p *LDAPURLProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data LDAPURLProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	ctx = p.configureLogging(ctx)

	providerData := ldapurl.NewProviderData(
		p.getBoolValue(data.ForceScopeRendering, EnvForceScopeRendering, false),
		p.getStringValue(data.DefaultScheme, EnvDefaultScheme),
	)

	tflog.Info(ctx, "Configured LDAP URL provider", map[string]any{
		"version":               p.version,
		"force_scope_rendering": providerData.ForceScopeRendering,
		"default_scheme":        providerData.DefaultScheme,
	})

	resp.DataSourceData = providerData
	resp.ResourceData = providerData
}

// configureLogging sets persistent fields for all provider logs.
func (p *LDAPURLProvider) configureLogging(ctx context.Context) context.Context {
	ctx = tflog.SetField(ctx, "provider", "ldapurl")
	ctx = tflog.SetField(ctx, "provider_version", p.version)

	tflog.Debug(ctx, "LDAP URL provider logging configured")

	return ctx
}

func (p *LDAPURLProvider) getStringValue(configValue types.String, envVar string) string {
	if !configValue.IsNull() && configValue.ValueString() != "" {
		return configValue.ValueString()
	}
	return os.Getenv(envVar)
}

func (p *LDAPURLProvider) getBoolValue(configValue types.Bool, envVar string, defaultValue bool) bool {
	if !configValue.IsNull() {
		return configValue.ValueBool()
	}
	if envValue := os.Getenv(envVar); envValue != "" {
		if parsed, err := strconv.ParseBool(envValue); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func (p *LDAPURLProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		// URLs are values, not managed objects
	}
}

func (p *LDAPURLProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewURLDataSource,
	}
}

func (p *LDAPURLProvider) Functions(ctx context.Context) []func() function.Function {
	return []func() function.Function{
		NewParseURLFunction,
		NewBuildURLFunction,
		NewNormalizeURLFunction,
		NewEncodeReferralFunction,
		NewDecodeReferralFunction,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &LDAPURLProvider{
			version: version,
		}
	}
}
