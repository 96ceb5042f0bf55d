// Package driving defines the inbound ports of the radar core: the
// contracts the CLI, HTTP layer and scheduler call into.
package driving
