/*
Package application holds the plumbing shared by the mantaray
executables.

# Config

AppConfig abstracts the encoding of an executable's configuration
file. TOML is the only supported encoding.

# Logger

Logger is a small wrapper around zap used by every executable and by
the storage layer.
*/
package application
