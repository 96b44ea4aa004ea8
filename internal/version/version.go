// Package version holds the current version string of the workbench.
package version

// Current is the workbench's version string.
const Current = "0.1.0"
