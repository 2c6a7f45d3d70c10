// Package core is the stable library facade over the anonymization
// pipeline. It re-exports a narrow API so integrations do not import
// internal packages.
//
// Example:
//
//	cfg, err := core.LoadConfig("profile.json")
//	if err != nil { /* handle */ }
//	res, err := core.Anonymize(text, cfg)
//	if err != nil { /* handle */ }
//	fmt.Println(res.AnonymizedText)
package core
