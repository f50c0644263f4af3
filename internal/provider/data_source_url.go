package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/datasourcevalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
	"github.com/isometry/terraform-provider-ldapurl/internal/provider/helpers"
	customtypes "github.com/isometry/terraform-provider-ldapurl/internal/provider/types"
	"github.com/isometry/terraform-provider-ldapurl/internal/provider/validators"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &URLDataSource{}
var _ datasource.DataSourceWithConfigure = &URLDataSource{}
var _ datasource.DataSourceWithConfigValidators = &URLDataSource{}

// urlComponentAttributes are the inputs that conflict with "url".
var urlComponentAttributes = []string{"scheme", "host", "port", "dn", "attributes", "scope", "filter", "extensions"}

func NewURLDataSource() datasource.DataSource {
	return &URLDataSource{}
}

// URLDataSource defines the data source implementation.
type URLDataSource struct {
	providerData *ldapurl.ProviderData
}

// URLDataSourceModel describes the data source data model.
type URLDataSourceModel struct {
	// Input: a complete URL (conflicts with the components below)
	URL customtypes.LDAPURLStringValue `tfsdk:"url"`

	// Components: inputs when url is unset, outputs otherwise
	Scheme     types.String              `tfsdk:"scheme"`
	Host       types.String              `tfsdk:"host"`
	Port       types.Int64               `tfsdk:"port"`
	DN         customtypes.DNStringValue `tfsdk:"dn"`
	Attributes types.List                `tfsdk:"attributes"`
	Scope      types.String              `tfsdk:"scope"`
	Filter     types.String              `tfsdk:"filter"`
	Extensions types.List                `tfsdk:"extensions"`

	ForceScopeRendering types.Bool `tfsdk:"force_scope_rendering"`

	// Computed outputs
	ID               types.String                   `tfsdk:"id"`
	Value            customtypes.LDAPURLStringValue `tfsdk:"value"`
	Secure           types.Bool                     `tfsdk:"secure"`
	HostPort         types.String                   `tfsdk:"host_port"`
	NormalizedDN     types.String                   `tfsdk:"normalized_dn"`
	ScopeDescription types.String                   `tfsdk:"scope_description"`
}

func (d *URLDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_url"
}

func (d *URLDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Parses an LDAP URL, or assembles one from components, and exposes both the canonical URL " +
			"and its decoded components. Set either `url` or any of the component attributes.",

		Attributes: map[string]schema.Attribute{
			"url": schema.StringAttribute{
				MarkdownDescription: "The LDAP URL to parse. Conflicts with the component attributes. " +
					"Example: `ldap://ldap.example.com/dc=example,dc=com?cn,mail?sub?(objectClass=person)`",
				CustomType: customtypes.LDAPURLStringType{},
				Optional:   true,
				Validators: []validator.String{
					validators.IsValidLDAPURL(),
				},
			},

			// Components
			"scheme": schema.StringAttribute{
				MarkdownDescription: "`ldap` or `ldaps`. Defaults to the provider's `default_scheme`.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					validators.CaseInsensitiveOneOf("ldap", "ldaps"),
				},
			},
			"host": schema.StringAttribute{
				MarkdownDescription: "Host name or IPv4 literal. Empty when the URL names no host.",
				Optional:            true,
				Computed:            true,
			},
			"port": schema.Int64Attribute{
				MarkdownDescription: "Explicit port. Null when the URL carries none.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.Int64{
					int64validator.Between(1, 65535),
					int64validator.AlsoRequires(path.MatchRoot("host")),
				},
			},
			"dn": schema.StringAttribute{
				MarkdownDescription: "Base DN. The empty string names the root DSE; null means the URL has no DN. " +
					"Compared case-insensitively.",
				CustomType: customtypes.DNStringType{},
				Optional:   true,
				Computed:   true,
				Validators: []validator.String{
					validators.IsValidBaseDN(),
				},
			},
			"attributes": schema.ListAttribute{
				MarkdownDescription: "Attributes to return. Duplicates are removed, keeping the first occurrence.",
				ElementType:         types.StringType,
				Optional:            true,
				Computed:            true,
				Validators: []validator.List{
					listvalidator.ValueStringsAre(stringvalidator.LengthAtLeast(1)),
				},
			},
			"scope": schema.StringAttribute{
				MarkdownDescription: "Search scope: `base`, `one` or `sub` (case-insensitive). Defaults to `base`.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					validators.CaseInsensitiveOneOf(ldapurl.ScopeTokens()...),
				},
			},
			"filter": schema.StringAttribute{
				MarkdownDescription: "RFC 4515 search filter. Null when the URL has none.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					validators.IsValidFilter(),
				},
			},
			"extensions": schema.ListNestedAttribute{
				MarkdownDescription: "URL extensions, in order.",
				Optional:            true,
				Computed:            true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"critical": schema.BoolAttribute{
							MarkdownDescription: "Whether the extension is marked critical (`!`). Defaults to `false`.",
							Optional:            true,
							Computed:            true,
						},
						"type": schema.StringAttribute{
							MarkdownDescription: "Extension type, e.g. `bindname`.",
							Required:            true,
							Validators: []validator.String{
								stringvalidator.LengthAtLeast(1),
							},
						},
						"value": schema.StringAttribute{
							MarkdownDescription: "Extension value. Null when the extension has none.",
							Optional:            true,
						},
					},
				},
			},
			"force_scope_rendering": schema.BoolAttribute{
				MarkdownDescription: "Always include the scope token in `value`. Overrides the provider setting.",
				Optional:            true,
			},

			// Computed outputs
			"id": schema.StringAttribute{
				MarkdownDescription: "The canonical URL.",
				Computed:            true,
			},
			"value": schema.StringAttribute{
				MarkdownDescription: "The canonical URL.",
				CustomType:          customtypes.LDAPURLStringType{},
				Computed:            true,
			},
			"secure": schema.BoolAttribute{
				MarkdownDescription: "Whether the scheme is `ldaps`.",
				Computed:            true,
			},
			"host_port": schema.StringAttribute{
				MarkdownDescription: "`host:port` using the explicit port or the scheme default (389 or 636). Null without a host.",
				Computed:            true,
			},
			"normalized_dn": schema.StringAttribute{
				MarkdownDescription: "The DN with upper-cased attribute types, e.g. `CN=John,DC=example,DC=com`. Null when the URL has no DN.",
				Computed:            true,
			},
			"scope_description": schema.StringAttribute{
				MarkdownDescription: "Human readable scope, e.g. `Whole Subtree`.",
				Computed:            true,
			},
		},
	}
}

// ConfigValidators implements datasource.DataSourceWithConfigValidators.
func (d *URLDataSource) ConfigValidators(ctx context.Context) []datasource.ConfigValidator {
	configValidators := make([]datasource.ConfigValidator, 0, len(urlComponentAttributes))
	for _, name := range urlComponentAttributes {
		configValidators = append(configValidators, datasourcevalidator.Conflicting(
			path.MatchRoot("url"),
			path.MatchRoot(name),
		))
	}
	return configValidators
}

func (d *URLDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	// Prevent panic if the provider has not been configured.
	if req.ProviderData == nil {
		return
	}

	providerData, ok := req.ProviderData.(*ldapurl.ProviderData)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *ldapurl.ProviderData, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return
	}

	d.providerData = providerData
}

func (d *URLDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data URLDataSourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	done := ldapurl.LogDataSourceOperation(ctx, "ldapurl_url", "Read", map[string]any{
		"from_url": !data.URL.IsNull(),
	})

	u := d.resolveURL(ctx, &data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		done(fmt.Errorf("failed to resolve LDAP URL"))
		return
	}

	if !data.ForceScopeRendering.IsNull() {
		u.SetForceScopeRendering(data.ForceScopeRendering.ValueBool())
	} else {
		d.providerData.Apply(ctx, u)
	}

	tflog.Debug(ctx, "Resolved LDAP URL", ldapurl.URLFields(u))

	d.mapURLToModel(ctx, u, &data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		done(fmt.Errorf("failed to map LDAP URL"))
		return
	}
	done(nil)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// resolveURL parses the url attribute, or builds a URL from the components.
func (d *URLDataSource) resolveURL(ctx context.Context, data *URLDataSourceModel, diags *diag.Diagnostics) *ldapurl.URL {
	if !data.URL.IsNull() {
		u, parseDiags := data.URL.ParsedURL(path.Root("url"))
		diags.Append(parseDiags...)
		return u
	}

	c := ldapurl.Components{
		Scheme: data.Scheme.ValueString(),
		Host:   data.Host.ValueString(),
		Port:   int(data.Port.ValueInt64()),
		Scope:  data.Scope.ValueString(),
		Filter: data.Filter.ValueString(),
	}
	if d.providerData != nil {
		c.DefaultScheme = d.providerData.DefaultScheme
	}

	if !data.DN.IsNull() {
		dn := data.DN.ValueString()
		c.DN = &dn
	}

	if !data.Attributes.IsNull() {
		diags.Append(data.Attributes.ElementsAs(ctx, &c.Attributes, false)...)
	}

	if !data.Extensions.IsNull() {
		var models []extensionModel
		diags.Append(data.Extensions.ElementsAs(ctx, &models, false)...)
		c.Extensions = extensionsFromModels(models)
	}

	if diags.HasError() {
		return nil
	}

	tflog.Debug(ctx, "Building LDAP URL from components", map[string]any{
		"host":            c.Host,
		"port":            c.Port,
		"has_dn":          c.DN != nil,
		"attribute_count": len(c.Attributes),
		"extension_count": len(c.Extensions),
	})

	u, err := c.Build()
	if err != nil {
		diags.AddAttributeError(
			componentPath(ldapurl.GetErrorComponent(err)),
			"Invalid LDAP URL Component",
			fmt.Sprintf("Could not build an LDAP URL from the configured components: %s", err.Error()),
		)
		return nil
	}
	return u
}

// componentPath maps a failing URL component to the attribute to blame.
func componentPath(component ldapurl.URLComponent) path.Path {
	switch component {
	case ldapurl.ComponentScheme:
		return path.Root("scheme")
	case ldapurl.ComponentHostPort:
		return path.Root("host")
	case ldapurl.ComponentDN:
		return path.Root("dn")
	case ldapurl.ComponentAttributes:
		return path.Root("attributes")
	case ldapurl.ComponentScope:
		return path.Root("scope")
	case ldapurl.ComponentFilter:
		return path.Root("filter")
	case ldapurl.ComponentExtensions:
		return path.Root("extensions")
	default:
		return path.Empty()
	}
}

// mapURLToModel writes the URL components and derived values to the model.
func (d *URLDataSource) mapURLToModel(_ context.Context, u *ldapurl.URL, data *URLDataSourceModel, diags *diag.Diagnostics) {
	canonical := u.String()
	data.ID = types.StringValue(canonical)
	data.Value = customtypes.LDAPURLString(canonical)

	data.Scheme = types.StringValue(schemeName(u))
	data.Secure = types.BoolValue(u.IsSecure())
	data.Host = types.StringValue(u.Host())
	data.Port = portValue(u)
	data.HostPort = hostPortValue(u)

	if u.HasDN() {
		data.DN = customtypes.DNString(u.DNString())
		data.NormalizedDN = types.StringValue(data.DN.Normalized())
	} else {
		data.DN = customtypes.DNStringNull()
		data.NormalizedDN = types.StringNull()
	}

	data.Attributes = helpers.StringListValue(u.Attributes())
	data.Scope = types.StringValue(u.Scope().String())
	data.ScopeDescription = types.StringValue(u.Scope().Description())
	data.Filter = filterValue(u)

	extensions, extDiags := extensionsValue(u)
	diags.Append(extDiags...)
	data.Extensions = extensions
}
