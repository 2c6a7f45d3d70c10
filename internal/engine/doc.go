// Package engine runs the anonymization pipeline: idempotence check,
// detection, policy filtering, overlap resolution, strategy application and
// summary. It also provides a chunked mode for large inputs. This package is
// internal; external consumers should use the stable facade in pkg/core.
package engine
