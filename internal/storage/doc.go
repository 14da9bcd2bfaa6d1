// Package storage writes exported calendars to disk.
//
// Files are written atomically: the data goes to a temporary file in the
// target directory, which is synced, closed and then renamed over the final
// name, so a reader never sees a half-written calendar. The output directory
// may start with "~/" and is created when missing.
package storage
