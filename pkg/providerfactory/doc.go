// Package providerfactory constructs provider adapters from their string
// identifiers and holds the process-wide credential store.
//
// The identifier set is closed: openai, claude, gemini, ollama. Adding a
// provider means adding a case to the factory switch, not registering into
// a lookup table. Every call builds a fresh adapter bound to the supplied
// config, so a stale adapter can never outlive the config it was built for.
package providerfactory
