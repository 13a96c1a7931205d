// Package sink persists flattened records to disk.
//
// Two sink shapes exist:
//
//   - CSV streams rows into a single delimited file as they arrive,
//     header first, with O(1) memory use. The file carries a UTF-8
//     byte-order mark for spreadsheet tools.
//   - Snapshot accumulates every record in memory and, at every exact
//     multiple of the checkpoint size, re-serializes the entire
//     collection to a new timestamp-named Parquet file. Closing the
//     sink always writes one final full snapshot, plus an optional
//     CSV export of the whole collection.
//
// Manager composes any number of sinks behind the same Write/Close
// pair, and FromConfig assembles the combination the configuration
// asks for.
//
// Every output file is named {unix_timestamp}_output with the format
// extension. Names never collide: a second file within the same
// second gets the next timestamp.
package sink
