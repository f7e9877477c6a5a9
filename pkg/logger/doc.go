// Package logger wraps Uber's Zap logger behind a small structured API.
//
// Field maps keep call sites free of zap imports; packages that need
// logging declare their own Logger interface with the same method set
// and receive this implementation through Fx.
package logger
