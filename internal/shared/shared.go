// Package shared holds values used across pushindexer packages.
package shared

// Name of the application.
const Name = "pushindexer"
