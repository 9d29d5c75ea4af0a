// Package rules embeds the default migration rule set.
package rules

import _ "embed"

// DefaultName is the name of the embedded rule set.
const DefaultName = "spring-boot-4"

// Default is the Spring Boot 3.x to 4.x rule set, as yaml.
//
//go:embed spring-boot-4.yaml
var Default []byte
