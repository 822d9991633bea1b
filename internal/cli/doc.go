// Package cli turns the tplc command line into an app.Config. Bad flags and
// values come back as an *ExitError carrying the process exit code; -h and a
// call without template paths print usage and ask the caller to exit cleanly.
package cli
