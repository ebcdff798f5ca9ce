// Package translationcache stores block translations in SQLite so rerunning a
// file, or translating a file that shares blocks with an earlier one, skips
// the backend for blocks it has already seen.
//
// Keys hash the model, both languages, the theme, the block payload and its
// context window. The database uses WAL mode and retries writes on
// SQLITE_BUSY, so the decorator is safe to share across orchestrator workers.
package translationcache
