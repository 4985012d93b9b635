// Package command exposes go-command compatible command handlers implementing
// the tracking workflows (activity type definition, submissions, presets and
// food catalog entries). Commands are wired by the service layer and can be
// invoked by any transport.
package command
