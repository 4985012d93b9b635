// Package query exposes go-command queriers for reading activity types,
// tracked activities, their nutrition, presets and the audit trail. Queries
// never mutate state; in particular reading a preset leaves its usage
// statistics untouched.
package query
