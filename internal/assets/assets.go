// Package assets carries the static files shipped inside the binary.
package assets

import _ "embed"

// PluginArtifact is the Cinema 4D bridge plugin. The installer deploys it
// into the host application's plugins directory verbatim.
//
//go:embed c4d_mcp_bridge.pyp
var PluginArtifact []byte
