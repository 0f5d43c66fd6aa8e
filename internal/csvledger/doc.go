// Package csvledger provides a small CSV codec and a keyed upsert engine for
// local, single-process ledger files.
//
// # Data Model
//
// A ledger is a header (ordered, unique column names) plus rows. A [Row] maps
// column names to string values; column order always comes from the header,
// and a column absent from a row serializes as the empty string. All values
// are stored and compared as strings.
//
// # Upsert
//
// [Upsert] performs a full read-modify-write cycle on every call: the file is
// parsed fresh, incoming rows replace existing rows whose key-tuple matches,
// new keys append at the end, and the whole file is rewritten via a temp file
// and rename. Untouched rows keep their relative order, so repeated runs with
// the same batch are byte-for-byte idempotent.
//
// There is no cross-process locking. Concurrent writers against the same file
// are not supported; this is a deliberate limitation for cron-style usage.
package csvledger
