// Package storage provides durable single-slot persistence backends for
// the session snapshot. A Slot is one key-value cell: the serialized
// snapshot is written on every identity mutation and read back once at
// startup. Backends cover in-memory (tests, ephemeral runs), a JSON file,
// a SQLite table, and a Redis key.
package storage
