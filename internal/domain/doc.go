// Package domain defines the notification contract shared by producers and
// the relay.
//
// Just types and validation rules, no implementation code. The relay itself
// only ever sees a validated notification as an opaque payload.
package domain
