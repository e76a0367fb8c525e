// Package build holds build-time information about the drift binary.
package build

// Version is the drift version string. It defaults to "dev" and is
// overwritten by linker flags in release builds.
var Version = "dev"
