// Package hubsync keeps a hub and a key in a Store in step.
//
// A Binding relies on the hub delivering exactly one notification per update
// with the full new value, and writes that value after each notification.
// The codec decides the storage format.
package hubsync
