// Package ui carries the embedded single-page admin frontend.
package ui

import (
	_ "embed"
)

// AdminPage is the station admin page served at /ui. It is a self-contained
// HTML document that talks to the JSON API on the same origin.
//
//go:embed static/index.html
var AdminPage []byte
