package provider

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/providerserver"
	"github.com/hashicorp/terraform-plugin-go/tfprotov6"
)

// testAccProtoV6ProviderFactories is used to instantiate a provider during acceptance testing.
// The factory function is called for each Terraform CLI command to create a provider
// server that the CLI can connect to and interact with.
var testAccProtoV6ProviderFactories = map[string]func() (tfprotov6.ProviderServer, error){
	"ldapurl": providerserver.NewProtocol6WithError(New("test")()),
}

// testAccPreCheck only needs TF_ACC: the provider never contacts a server.
func testAccPreCheck(t *testing.T) {
	SkipIfNotAccTest(t)
}
