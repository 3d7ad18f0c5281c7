// Package buildinfo carries version identifiers stamped at build time
// via -ldflags.
package buildinfo

var Version = "1.0.0"
var Commit = "HEAD"
var BuildDate = "now"
