/*
Package log provides structured logging for the engine using zerolog.

It wraps a single global zerolog.Logger with JSON or human-readable console
output, a configurable severity threshold, and a small set of child-logger
helpers for tagging log lines with the component, platform, or task they
originate from.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	log.Info("engine started")

	taskLog := log.WithTaskID(taskID)
	taskLog.Info().Str("kind", "register").Msg("task finished")

Component loggers compose: WithComponent("registry").With().Str("platform",
name).Logger() attaches both fields to every subsequent line.

# Levels

Debug is for development only; Info is the default production level; Warn
and Error mark conditions operators should look at. Fatal exits the process
and should only be used by cmd/warren-enginectl during startup, never by
the engine package itself — the engine always returns errors instead.
*/
package log
