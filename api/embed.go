// Package api ships the OpenAPI document for the admin HTTP API.
package api

import _ "embed"

//go:embed openapi.yml
var Spec []byte
