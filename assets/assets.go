// Package assets embeds the static files served by the web server.
package assets

import _ "embed"

// Index is the minified single page application, built by cmd/minify.
//
//go:embed index.html
var Index []byte

// Favicon is the site icon.
//
//go:embed logo.svg
var Favicon []byte
