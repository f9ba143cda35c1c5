// Package repositories implements SQLite persistence for games, lists, and list membership.
//
// Key Implementations:
//   - [GameRepository] : catalog persistence and the ordered game projection of a list
//   - [GameListRepository] : list persistence and appending games at the next free position
//   - [BelongingRepository] : the ordered list store; loads a list in position order and
//     applies position updates atomically
//
// Queries run against a [querier], which is either the *sql.DB or the *sql.Tx of an enclosing unit of work,
// so the same repository code serves both standalone calls and [BelongingRepository.Atomically].
package repositories
