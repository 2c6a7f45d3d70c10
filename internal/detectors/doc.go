// Package detectors finds candidate PII spans in text.
//
// Three kinds of detector are provided: Pattern (regular expressions gated
// by format validators), Dictionary (term lists loaded from files) and Names
// (adjacency of known first names, last names and titles). Offsets are byte
// offsets into the NFC form of the scanned text.
//
// The name heuristics are list lookups. Names missing from the embedded
// lists are not found, and capitalized words that happen to be names are.
package detectors
