// Package api handles incoming HTTP requests: routing targets, request
// validation, and response formatting. It adapts external clients to the
// internal application services, keeping HTTP concerns out of the
// business layer.
package api
