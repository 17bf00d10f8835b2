package mimal

// Version is the current release of mimal.
const Version = "0.1.0"
