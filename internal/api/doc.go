// Package api contains the HTTP handlers, request/response models and
// error mapping for the public REST surface. Handlers stay thin: they
// decode and validate payloads, call into the service layer, and translate
// errors through MapErrorToStatusCode so internal details never reach
// clients.
package api
