// Package config defines the format-agnostic configuration model for the
// application and the Loader interface that fills it from files.
//
// Concrete implementations, such as the HCL one, live in separate packages.
package config
