// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the render lifecycle: load a project, wire
// an engine, export frames to the configured sinks and optionally keep
// re-rendering while the project file changes. It is decoupled from any
// specific entrypoint like a CLI or server.
package app
