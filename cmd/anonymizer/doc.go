// Package anonymizer provides the command-line interface. The root command
// anonymizes one input; subcommands list detectors, manage profiles, and
// inspect mapping files and audit logs.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/anonymizer/cmd/anonymizer"
//	func main() { anonymizer.Execute() }
package anonymizer
