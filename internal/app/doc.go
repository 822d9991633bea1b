// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the compile lifecycle (load templates,
// compile them, optionally verify the result, write it out), decoupled from
// any specific entrypoint like a CLI.
package app
