package concerto

import _ "embed"

// Version is the release of the validator, read from the VERSION file.
//
//go:embed VERSION
var Version string
