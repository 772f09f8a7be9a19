package types

// Version is the application version. Overwritten via -ldflags at release build.
var Version = "dev"

// ServiceName is used in health responses and error reports
const ServiceName = "lookout"
