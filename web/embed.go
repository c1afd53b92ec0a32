// Package web holds the embedded single-page UI served by the API
// server.
package web

import "embed"

//go:embed index.html app.js style.css
var FS embed.FS
