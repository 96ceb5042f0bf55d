// Package file loads pipeline configuration from a TOML file with
// environment-variable overrides. The file is optional; every field
// has a working default so a bare `radar sync` needs no setup.
package file
