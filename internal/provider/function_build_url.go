package provider

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/creasty/defaults"
	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/types"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
	"github.com/isometry/terraform-provider-ldapurl/internal/provider/helpers"
)

var _ function.Function = &BuildURLFunction{}

// componentKeys lists the attributes accepted in the build_url components object.
var componentKeys = []string{"scheme", "host", "port", "dn", "attributes", "scope", "filter", "extensions"}

// BuildURLOptions represents the options accepted by the build_url function.
type BuildURLOptions struct {
	// ForceScopeRendering always emits the scope token, even for "base".
	ForceScopeRendering bool `json:"force_scope_rendering,omitempty" default:"false"`

	// DefaultScheme is used when the components carry no scheme.
	DefaultScheme string `json:"default_scheme,omitempty" default:"ldap"`

	// NormalizeDN upper-cases DN attribute types and re-escapes values.
	NormalizeDN bool `json:"normalize_dn,omitempty" default:"false"`
}

func NewBuildURLFunction() function.Function {
	return &BuildURLFunction{}
}

// BuildURLFunction implements the build_url function.
type BuildURLFunction struct{}

// Metadata returns the function name.
func (f BuildURLFunction) Metadata(_ context.Context, req function.MetadataRequest, resp *function.MetadataResponse) {
	resp.Name = "build_url"
}

// Definition returns the function schema including parameters and return types.
func (f BuildURLFunction) Definition(_ context.Context, req function.DefinitionRequest, resp *function.DefinitionResponse) {
	resp.Definition = function.Definition{
		Summary:     "Build an LDAP URL from components",
		Description: "Assembles and percent-encodes an RFC 2255 LDAP URL from an object of components. Component keys (all optional): scheme, host, port, dn, attributes, scope, filter, extensions. Options keys (all optional): force_scope_rendering (bool, default false), default_scheme (string, default ldap), normalize_dn (bool, default false).",
		MarkdownDescription: "Assembles and percent-encodes an RFC 2255 LDAP URL from an object of components.\n\n" +
			"**Component keys (all optional):**\n" +
			"- `scheme` (string): `ldap` or `ldaps` (the `://` suffix is accepted)\n" +
			"- `host` (string): host name or IPv4 literal\n" +
			"- `port` (number): 1 to 65535, requires `host`\n" +
			"- `dn` (string): base DN; when omitted but later components are set, the empty DN is used\n" +
			"- `attributes` (list of string)\n" +
			"- `scope` (string): `base`, `one` or `sub`, case-insensitive\n" +
			"- `filter` (string): RFC 4515 search filter\n" +
			"- `extensions` (list of object): `type` (required), `value`, `critical`\n\n" +
			"**Options keys (all optional):**\n" +
			"- `force_scope_rendering` (bool): always emit the scope token (default: false)\n" +
			"- `default_scheme` (string): scheme used when `scheme` is omitted (default: \"ldap\")\n" +
			"- `normalize_dn` (bool): upper-case DN attribute types (default: false)",
		Parameters: []function.Parameter{
			function.DynamicParameter{
				Name:                "components",
				Description:         "Object or map of URL components.",
				MarkdownDescription: "Object or map of URL components, e.g. `{ host = \"ldap.example.com\", dn = \"dc=example,dc=com\", scope = \"sub\" }`.",
			},
			function.DynamicParameter{
				Name:                "options",
				Description:         "Optional options object controlling serialization. Can be null to use defaults.",
				MarkdownDescription: "Optional options object controlling serialization. Can be `null` to use defaults.",
				AllowNullValue:      true,
			},
		},
		Return: function.StringReturn{},
	}
}

// Run implements the function logic.
func (f BuildURLFunction) Run(ctx context.Context, req function.RunRequest, resp *function.RunResponse) {
	var components types.Dynamic
	var options types.Dynamic

	resp.Error = function.ConcatFuncErrors(resp.Error, req.Arguments.Get(ctx, &components, &options))
	if resp.Error != nil {
		return
	}

	if components.IsNull() || components.IsUnknown() {
		resp.Error = function.NewArgumentFuncError(0, "components parameter cannot be null")
		return
	}

	opts, err := f.ParseBuildURLOptions(ctx, options)
	if err != nil {
		resp.Error = function.NewArgumentFuncError(1, fmt.Sprintf("Invalid options: %s", err.Error()))
		return
	}

	componentMap, err := helpers.DynamicValueToMap(ctx, components)
	if err != nil {
		resp.Error = function.NewArgumentFuncError(0, fmt.Sprintf("Failed to extract components: %s", err.Error()))
		return
	}

	ctx = initializeLogging(ctx)
	done := ldapurl.LogFunctionOperation(ctx, "build_url", map[string]any{
		"component_count":       len(componentMap),
		"force_scope_rendering": opts.ForceScopeRendering,
	})

	u, err := f.BuildURL(componentMap, opts)
	done(err)
	if err != nil {
		resp.Error = function.NewArgumentFuncError(0, fmt.Sprintf("Failed to build URL: %s", err.Error()))
		return
	}

	resp.Error = resp.Result.Set(ctx, types.StringValue(u.String()))
}

// BuildURL assembles a URL from decoded components.
func (f BuildURLFunction) BuildURL(componentMap map[string]any, opts *BuildURLOptions) (*ldapurl.URL, error) {
	for key := range componentMap {
		if !slices.Contains(componentKeys, key) {
			return nil, fmt.Errorf("unknown component %q, expected one of %s", key, strings.Join(componentKeys, ", "))
		}
	}

	c := ldapurl.Components{
		DefaultScheme:       opts.DefaultScheme,
		ForceScopeRendering: opts.ForceScopeRendering,
	}

	var err error
	if c.Scheme, _, err = helpers.StringField(componentMap, "scheme"); err != nil {
		return nil, err
	}
	if c.Host, _, err = helpers.StringField(componentMap, "host"); err != nil {
		return nil, err
	}

	port, hasPort, err := helpers.IntField(componentMap, "port")
	if err != nil {
		return nil, err
	}
	if hasPort {
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("port %d out of range [1, 65535]", port)
		}
		c.Port = int(port)
	}

	dn, hasDN, err := helpers.StringField(componentMap, "dn")
	if err != nil {
		return nil, err
	}
	if hasDN {
		if opts.NormalizeDN && strings.TrimSpace(dn) != "" {
			if dn, err = ldapurl.NormalizeDNCase(dn); err != nil {
				return nil, err
			}
		}
		c.DN = &dn
	}

	if c.Attributes, _, err = helpers.StringSliceField(componentMap, "attributes"); err != nil {
		return nil, err
	}
	if c.Scope, _, err = helpers.StringField(componentMap, "scope"); err != nil {
		return nil, err
	}
	if c.Filter, _, err = helpers.StringField(componentMap, "filter"); err != nil {
		return nil, err
	}

	extObjects, _, err := helpers.ObjectSliceField(componentMap, "extensions")
	if err != nil {
		return nil, err
	}
	if c.Extensions, err = extensionsFromGo(extObjects); err != nil {
		return nil, err
	}

	return c.Build()
}

// ParseBuildURLOptions applies defaults, then overrides them from the options
// value. Null or unknown options yield the defaults.
func (f BuildURLFunction) ParseBuildURLOptions(ctx context.Context, optionsValue types.Dynamic) (*BuildURLOptions, error) {
	opts := &BuildURLOptions{}

	if err := defaults.Set(opts); err != nil {
		return nil, fmt.Errorf("failed to set default values: %w", err)
	}

	if optionsValue.IsNull() || optionsValue.IsUnknown() || optionsValue.IsUnderlyingValueNull() {
		return opts, nil
	}

	optionsMap, err := helpers.DynamicValueToMap(ctx, optionsValue)
	if err != nil {
		return nil, fmt.Errorf("failed to extract options map: %w", err)
	}

	for key := range optionsMap {
		switch key {
		case "force_scope_rendering", "default_scheme", "normalize_dn":
		default:
			return nil, fmt.Errorf("unknown option %q", key)
		}
	}

	if val, ok, err := helpers.BoolField(optionsMap, "force_scope_rendering"); err != nil {
		return nil, err
	} else if ok {
		opts.ForceScopeRendering = val
	}

	if val, ok, err := helpers.StringField(optionsMap, "default_scheme"); err != nil {
		return nil, err
	} else if ok {
		switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(val)), "://") {
		case "ldap", "ldaps":
			opts.DefaultScheme = val
		default:
			return nil, fmt.Errorf("default_scheme must be ldap or ldaps, got %q", val)
		}
	}

	if val, ok, err := helpers.BoolField(optionsMap, "normalize_dn"); err != nil {
		return nil, err
	} else if ok {
		opts.NormalizeDN = val
	}

	return opts, nil
}
