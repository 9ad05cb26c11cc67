// Package protocol implements the length-delimited JSON wire format
// used between the orchestrator and a worker process.
//
// # Wire format
//
// Each message is a 4-byte big-endian length prefix followed by a
// JSON envelope whose "kind" field discriminates between the four
// message kinds: lint, result, error, and memory. Messages travel
// over a dedicated pair of pipes established at worker spawn time
// (see internal/scheduler), never over stdin/stdout, which the
// worker inherits for human-readable logging.
//
// Encoding uses github.com/goccy/go-json as a drop-in, faster
// replacement for encoding/json, aliased the same way
// github.com/gurre/ddb-pitr does it in this project's reference
// corpus: `json "github.com/goccy/go-json"`.
package protocol
