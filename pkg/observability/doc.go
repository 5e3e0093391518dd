/*
Package observability provides tools for monitoring the validator.

It includes Prometheus metrics fed by the validator's lifecycle hooks and a
helper to chain several hook sets, so logging and metrics can observe the same calls.
*/
package observability
