package provider

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/terraform"

	ldapurl "github.com/isometry/terraform-provider-ldapurl/internal/ldap"
)

// Test environment configuration constants.
const (
	// Default values for testing.
	DefaultTestHost   = "ldap.example.com"
	DefaultTestBaseDN = "dc=example,dc=com"

	// Data source name prefix.
	TestURLPrefix = "tf-test-url-"
)

// IsAccTest returns true if acceptance tests should run.
func IsAccTest() bool {
	return os.Getenv("TF_ACC") != ""
}

// SkipIfNotAccTest skips the test if TF_ACC is not set.
func SkipIfNotAccTest(t *testing.T) {
	if !IsAccTest() {
		t.Skip("Skipping acceptance test - set TF_ACC=1 to run")
	}
}

// TestProviderConfig generates provider configuration for tests. Settings
// are written in key order; string values are quoted.
func TestProviderConfig(settings map[string]any) string {
	var providerConfig strings.Builder
	providerConfig.WriteString("provider \"ldapurl\" {\n")
	writeHCLAttributes(&providerConfig, settings)
	providerConfig.WriteString("}\n")
	return providerConfig.String()
}

// TestURLDataSourceConfig generates an ldapurl_url data source block.
func TestURLDataSourceConfig(name string, attributes map[string]any) string {
	var dataSourceConfig strings.Builder
	dataSourceConfig.WriteString(fmt.Sprintf("data \"ldapurl_url\" %q {\n", name))
	writeHCLAttributes(&dataSourceConfig, attributes)
	dataSourceConfig.WriteString("}\n")
	return dataSourceConfig.String()
}

func writeHCLAttributes(b *strings.Builder, attributes map[string]any) {
	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := attributes[k].(type) {
		case string:
			b.WriteString(fmt.Sprintf("  %s = %q\n", k, v))
		case []string:
			quoted := make([]string, len(v))
			for i, s := range v {
				quoted[i] = fmt.Sprintf("%q", s)
			}
			b.WriteString(fmt.Sprintf("  %s = [%s]\n", k, strings.Join(quoted, ", ")))
		default:
			b.WriteString(fmt.Sprintf("  %s = %v\n", k, v))
		}
	}
}

// GenerateTestName generates a unique test name with timestamp.
func GenerateTestName(prefix string) string {
	timestamp := time.Now().Format("20060102-150405")
	shortUUID := uuid.New().String()[:8]
	return fmt.Sprintf("%s%s-%s", prefix, timestamp, shortUUID)
}

// TestCheckURLEquivalent verifies that the named attribute holds an LDAP URL
// equivalent to expected.
func TestCheckURLEquivalent(resourceName, attribute, expected string) resource.TestCheckFunc {
	return func(s *terraform.State) error {
		rs, ok := s.RootModule().Resources[resourceName]
		if !ok {
			return fmt.Errorf("resource not found: %s", resourceName)
		}

		actual, ok := rs.Primary.Attributes[attribute]
		if !ok {
			return fmt.Errorf("%s: attribute %s not set", resourceName, attribute)
		}

		actualURL, err := ldapurl.Parse(actual)
		if err != nil {
			return fmt.Errorf("%s: attribute %s does not hold a valid LDAP URL: %v", resourceName, attribute, err)
		}

		expectedURL, err := ldapurl.Parse(expected)
		if err != nil {
			return fmt.Errorf("invalid expected LDAP URL %q: %v", expected, err)
		}

		if !actualURL.Equal(expectedURL) {
			return fmt.Errorf("%s: attribute %s is %q, expected equivalent of %q", resourceName, attribute, actual, expected)
		}

		return nil
	}
}
