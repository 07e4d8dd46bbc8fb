// Package schemas embeds the JSON Schemas shipped with datbuild.
package schemas

import _ "embed"

// BuildConfig is the schema for build.json.
//
//go:embed build_config.schema.json
var BuildConfig []byte
