// Package events carries reminder notifications from the scanner to
// whatever sinks are registered. The scanner emits one ReminderEvent per
// stale pending task without knowing which handlers will receive it.
//
// The primary components are:
// - ReminderEvent: a notification about one stale pending task
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
package events
