// Package cli parses command-line arguments, validates user input, and
// carries process-level concerns like exit codes.
package cli
