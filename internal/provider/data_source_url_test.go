package provider

import (
	"context"
	"regexp"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
	customtypes "github.com/isometry/terraform-provider-ldapurl/internal/provider/types"
)

func TestURLDataSource_Metadata(t *testing.T) {
	d := NewURLDataSource()

	resp := &datasource.MetadataResponse{}
	d.Metadata(context.Background(), datasource.MetadataRequest{ProviderTypeName: "ldapurl"}, resp)

	assert.Equal(t, "ldapurl_url", resp.TypeName)
}

func TestURLDataSource_Schema(t *testing.T) {
	d := NewURLDataSource()

	resp := &datasource.SchemaResponse{}
	d.Schema(context.Background(), datasource.SchemaRequest{}, resp)
	require.False(t, resp.Diagnostics.HasError(), "schema diagnostics: %v", resp.Diagnostics)

	expected := []string{
		"url", "scheme", "host", "port", "dn", "attributes", "scope", "filter", "extensions",
		"force_scope_rendering", "id", "value", "secure", "host_port", "normalized_dn", "scope_description",
	}
	for _, name := range expected {
		assert.Contains(t, resp.Schema.Attributes, name)
	}

	for _, name := range urlComponentAttributes {
		attr := resp.Schema.Attributes[name]
		assert.True(t, attr.IsOptional(), "%s should be optional", name)
		assert.True(t, attr.IsComputed(), "%s should be computed", name)
	}
}

func TestURLDataSource_ConfigValidators(t *testing.T) {
	d := &URLDataSource{}

	validators := d.ConfigValidators(context.Background())
	assert.Len(t, validators, len(urlComponentAttributes))
	for _, v := range validators {
		assert.NotNil(t, v)
	}
}

func TestURLDataSource_Configure(t *testing.T) {
	t.Run("nil provider data", func(t *testing.T) {
		d := &URLDataSource{}
		resp := &datasource.ConfigureResponse{}
		d.Configure(context.Background(), datasource.ConfigureRequest{}, resp)

		assert.False(t, resp.Diagnostics.HasError())
		assert.Nil(t, d.providerData)
	})

	t.Run("provider data", func(t *testing.T) {
		d := &URLDataSource{}
		pd := ldapurl.NewProviderData(true, "ldaps")
		resp := &datasource.ConfigureResponse{}
		d.Configure(context.Background(), datasource.ConfigureRequest{ProviderData: pd}, resp)

		assert.False(t, resp.Diagnostics.HasError())
		assert.Same(t, pd, d.providerData)
	})

	t.Run("wrong type", func(t *testing.T) {
		d := &URLDataSource{}
		resp := &datasource.ConfigureResponse{}
		d.Configure(context.Background(), datasource.ConfigureRequest{ProviderData: "nope"}, resp)

		require.True(t, resp.Diagnostics.HasError())
		assert.Contains(t, resp.Diagnostics.Errors()[0].Detail(), "string")
	})
}

func TestComponentPath(t *testing.T) {
	tests := map[ldapurl.URLComponent]path.Path{
		ldapurl.ComponentScheme:     path.Root("scheme"),
		ldapurl.ComponentHostPort:   path.Root("host"),
		ldapurl.ComponentDN:         path.Root("dn"),
		ldapurl.ComponentAttributes: path.Root("attributes"),
		ldapurl.ComponentScope:      path.Root("scope"),
		ldapurl.ComponentFilter:     path.Root("filter"),
		ldapurl.ComponentExtensions: path.Root("extensions"),
		ldapurl.ComponentUnknown:    path.Empty(),
	}

	for component, expected := range tests {
		t.Run(string(component), func(t *testing.T) {
			assert.True(t, componentPath(component).Equal(expected))
		})
	}
}

func TestURLDataSource_mapURLToModel(t *testing.T) {
	ctx := context.Background()
	d := &URLDataSource{}

	t.Run("full URL", func(t *testing.T) {
		u := ldapurl.MustParse("ldaps://ldap.example.com/cn=John%20Doe,dc=example,dc=com?cn,mail?sub?(objectClass=person)?!bindname=cn=admin")

		var data URLDataSourceModel
		var diags diag.Diagnostics
		d.mapURLToModel(ctx, u, &data, &diags)
		require.False(t, diags.HasError(), "diagnostics: %v", diags)

		assert.Equal(t, u.String(), data.ID.ValueString())
		assert.Equal(t, u.String(), data.Value.ValueString())
		assert.Equal(t, "ldaps", data.Scheme.ValueString())
		assert.True(t, data.Secure.ValueBool())
		assert.Equal(t, "ldap.example.com", data.Host.ValueString())
		assert.True(t, data.Port.IsNull())
		assert.Equal(t, "ldap.example.com:636", data.HostPort.ValueString())
		assert.Equal(t, "cn=John Doe,dc=example,dc=com", data.DN.ValueString())
		assert.Equal(t, "CN=John Doe,DC=example,DC=com", data.NormalizedDN.ValueString())
		assert.Equal(t, "sub", data.Scope.ValueString())
		assert.Equal(t, "Whole Subtree", data.ScopeDescription.ValueString())
		assert.Equal(t, "(objectClass=person)", data.Filter.ValueString())

		var attributes []string
		require.False(t, data.Attributes.ElementsAs(ctx, &attributes, false).HasError())
		assert.Equal(t, []string{"cn", "mail"}, attributes)

		var extensions []extensionModel
		require.False(t, data.Extensions.ElementsAs(ctx, &extensions, false).HasError())
		require.Len(t, extensions, 1)
		assert.True(t, extensions[0].Critical.ValueBool())
		assert.Equal(t, "bindname", extensions[0].Type.ValueString())
		assert.Equal(t, "cn=admin", extensions[0].Value.ValueString())
	})

	t.Run("bare URL", func(t *testing.T) {
		u := ldapurl.MustParse("ldap:///")

		var data URLDataSourceModel
		var diags diag.Diagnostics
		d.mapURLToModel(ctx, u, &data, &diags)
		require.False(t, diags.HasError(), "diagnostics: %v", diags)

		assert.Equal(t, "ldap:///", data.Value.ValueString())
		assert.Equal(t, "", data.Host.ValueString())
		assert.True(t, data.HostPort.IsNull())
		assert.True(t, data.DN.IsNull())
		assert.True(t, data.NormalizedDN.IsNull())
		assert.True(t, data.Filter.IsNull())
		assert.False(t, data.Attributes.IsNull())
		assert.Empty(t, data.Attributes.Elements())
		assert.Empty(t, data.Extensions.Elements())
		assert.Equal(t, "base", data.Scope.ValueString())
	})
}

func TestURLDataSource_resolveURL(t *testing.T) {
	ctx := context.Background()

	t.Run("from url", func(t *testing.T) {
		d := &URLDataSource{}
		data := URLDataSourceModel{
			URL:        customtypes.LDAPURLString("ldap://host/dc=x??SUB"),
			Attributes: types.ListNull(types.StringType),
			Extensions: types.ListNull(extensionObjectType),
			DN:         customtypes.DNStringNull(),
		}

		var diags diag.Diagnostics
		u := d.resolveURL(ctx, &data, &diags)
		require.False(t, diags.HasError(), "diagnostics: %v", diags)
		assert.Equal(t, "ldap://host/dc=x??sub", u.String())
	})

	t.Run("from components with provider default scheme", func(t *testing.T) {
		d := &URLDataSource{providerData: ldapurl.NewProviderData(false, "ldaps")}
		data := URLDataSourceModel{
			URL:        customtypes.LDAPURLStringNull(),
			Host:       types.StringValue("ldap.example.com"),
			Port:       types.Int64Value(3269),
			DN:         customtypes.DNString("dc=example,dc=com"),
			Attributes: types.ListValueMust(types.StringType, nil),
			Scope:      types.StringValue("one"),
			Filter:     types.StringNull(),
			Extensions: types.ListNull(extensionObjectType),
		}

		var diags diag.Diagnostics
		u := d.resolveURL(ctx, &data, &diags)
		require.False(t, diags.HasError(), "diagnostics: %v", diags)
		assert.Equal(t, "ldaps://ldap.example.com:3269/dc=example,dc=com??one", u.String())
	})

	t.Run("invalid component", func(t *testing.T) {
		d := &URLDataSource{}
		data := URLDataSourceModel{
			URL:        customtypes.LDAPURLStringNull(),
			DN:         customtypes.DNString("dc=x"),
			Filter:     types.StringValue("(cn=*"),
			Attributes: types.ListNull(types.StringType),
			Extensions: types.ListNull(extensionObjectType),
		}

		var diags diag.Diagnostics
		u := d.resolveURL(ctx, &data, &diags)
		assert.Nil(t, u)
		require.True(t, diags.HasError())
		assert.Equal(t, "Invalid LDAP URL Component", diags.Errors()[0].Summary())
	})
}

func TestAccURLDataSource_url(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestURLDataSourceConfig("test", map[string]any{
					"url": "ldap://ldap.example.com:389/DC=Example,DC=Com?cn,mail,cn?SUB?(objectClass=person)",
				}),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "value", "ldap://ldap.example.com:389/DC=Example,DC=Com?cn,mail?sub?(objectClass=person)"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "scheme", "ldap"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "secure", "false"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "host", "ldap.example.com"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "port", "389"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "host_port", "ldap.example.com:389"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "dn", "DC=Example,DC=Com"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "attributes.#", "2"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "attributes.0", "cn"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "attributes.1", "mail"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "scope", "sub"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "filter", "(objectClass=person)"),
					resource.TestCheckResourceAttr("data.ldapurl_url.test", "extensions.#", "0"),
				),
			},
		},
	})
}

func TestAccURLDataSource_components(t *testing.T) {
	name := GenerateTestName(TestURLPrefix)

	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(map[string]any{"default_scheme": "ldaps"}) +
					TestURLDataSourceConfig(name, map[string]any{
						"host":       DefaultTestHost,
						"dn":         "cn=John Doe," + DefaultTestBaseDN,
						"attributes": []string{"cn", "mail"},
						"scope":      "sub",
						"filter":     "(cn=what?)",
					}),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.ldapurl_url."+name, "value", "ldaps://ldap.example.com/cn=John%20Doe,dc=example,dc=com?cn,mail?sub?(cn=what%3F)"),
					resource.TestCheckResourceAttr("data.ldapurl_url."+name, "secure", "true"),
					resource.TestCheckResourceAttr("data.ldapurl_url."+name, "host_port", "ldap.example.com:636"),
					resource.TestCheckResourceAttr("data.ldapurl_url."+name, "normalized_dn", "CN=John Doe,DC=example,DC=com"),
					resource.TestCheckNoResourceAttr("data.ldapurl_url."+name, "port"),
					TestCheckURLEquivalent("data.ldapurl_url."+name, "id", "ldaps://ldap.example.com/cn=John%20Doe,dc=example,dc=com?cn,mail?SUB?(cn=what%3f)"),
				),
			},
		},
	})
}

func TestAccURLDataSource_forceScopeRendering(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(map[string]any{"force_scope_rendering": true}) +
					TestURLDataSourceConfig("provider", map[string]any{
						"url": "ldap://host/dc=x",
					}) +
					TestURLDataSourceConfig("override", map[string]any{
						"url":                   "ldap://host/dc=x",
						"force_scope_rendering": false,
					}),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.ldapurl_url.provider", "value", "ldap://host/dc=x??base"),
					resource.TestCheckResourceAttr("data.ldapurl_url.override", "value", "ldap://host/dc=x"),
				),
			},
		},
	})
}

func TestAccURLDataSource_invalid(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestURLDataSourceConfig("test", map[string]any{
					"url": "http://host/",
				}),
				ExpectError: regexp.MustCompile(`Invalid LDAP URL`),
			},
			{
				Config: TestURLDataSourceConfig("test", map[string]any{
					"url":  "ldap://host/",
					"host": "other",
				}),
				ExpectError: regexp.MustCompile(`Invalid Attribute Combination`),
			},
			{
				Config: TestURLDataSourceConfig("test", map[string]any{
					"dn":     "dc=x",
					"filter": "cn=*",
				}),
				ExpectError: regexp.MustCompile(`Invalid Search Filter`),
			},
		},
	})
}
