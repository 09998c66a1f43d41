package common

// Version is the build version, overridden at link time via
// -ldflags "-X github.com/confsource/confsource/common.Version=...".
var Version = "dev"
