// Package api carries the service's published API contract.
package api

import _ "embed"

// SpecYAML is the embedded OpenAPI contract served at /openapi.yaml and
// validated at startup.
//
//go:embed openapi.yaml
var SpecYAML []byte
