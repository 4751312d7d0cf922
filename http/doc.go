// Package http implements the gateway's REST routing layer: the /api
// JSON endpoints for events and contact messages, admin bearer-token
// enforcement, and the static file fallthrough for every other path.
package http
