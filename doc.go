// Package bboyzero implements the server-side gateway for the BBOY ZERO
// public site. It serves static assets and exposes a small JSON API that
// proxies events and contact messages to a Supabase backend, keeping the
// service-role credential strictly server-side.
//
// # Key Components
//
//   - Service: Gateway business logic over an abstract Store
//   - Store: Interface for the external row store and object storage
//   - supabase.Client: HTTP implementation of Store against the Supabase
//     REST and storage APIs
//   - static.Resolver: Sandboxed static file resolution under a fixed root
//
// The gateway owns no durable state; the external store is the sole source
// of truth. Configuration is loaded once at startup and treated as
// immutable for the lifetime of the process.
//
// See the http package for the REST routing layer and the cmd/bboyzero
// package for the server binary.
package bboyzero
