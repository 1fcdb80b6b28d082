package main

// Version is the pioversion CLI version, set at build time via -ldflags.
var Version = "dev"
