// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of the inspect, sources, and
// serve commands, decoupled from any specific entrypoint.
package app
