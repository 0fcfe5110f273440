// Package api exposes the task service over HTTP. Handlers decode JSON
// bodies into optional-field inputs, delegate to service.TaskService and map
// domain and store errors onto status codes with fixed client messages.
package api
