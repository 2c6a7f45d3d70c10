// Package config loads anonymization profiles from JSON or YAML files, or
// accepts them in memory, and repairs malformed fields into a fully typed
// AnonymizationConfig. Profile discovery follows local-then-global
// precedence; CLI code maps flags and files onto the pipeline.
package config
