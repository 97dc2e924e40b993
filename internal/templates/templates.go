// Package templates embeds the HTML report layout.
package templates

import _ "embed"

//go:embed report.html
var Report string
