package internal

// Version is the current version of the mantaray tools.
const Version = "0.2.0"
