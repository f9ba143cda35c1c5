// Package tasks runs long operations over game lists with real-time progress reporting.
//
// # Core Operations
//
// [ListEngine] provides two operations:
//
//  1. [ListEngine.Seed] : Load a [Catalog] into storage
//     - Saves every game (insert or overwrite by ID)
//     - Saves every list and appends its games in catalog order, so positions start dense at 0
//     - Re-running a seed leaves existing memberships where they are
//
//  2. [ListEngine.BulkExport] : Export many lists concurrently
//     - A producer loads each list at a paced rate ([rate.Limiter])
//     - A bounded worker pool writes each list in the requested format
//     - A manifest summarizing every list is written last
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
