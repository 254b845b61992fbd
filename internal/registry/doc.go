// Package registry keeps a SQLite record of compiled interfaces.
//
// Every distinct (name, version, spec_hash) triple is stored once, together
// with its canonical IR document and a row per signal topic, so the
// registry can answer "which interface publishes on this topic?".
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Queries order by the insertion seq, never by wall time, so listings are
// identical across runs.
package registry
