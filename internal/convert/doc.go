// Package convert builds and executes sox commands for the normalize and
// segment stages. Every invocation returns a structured result; a non-zero
// exit becomes a *model.ToolError carrying the exit code and stderr.
package convert
