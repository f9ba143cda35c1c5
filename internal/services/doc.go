// Package services implements the game catalog and game list use cases.
//
// # Reordering
//
// [GameListService.Move] is the one operation with real logic: it loads a list's belongings in position order,
// computes the move with the ordering package, and writes back only the positions between the source and
// destination indices. The load and the write share one unit of work on the [models.AtomicListStore],
// so two moves on the same list cannot interleave and leave positions duplicated or missing.
//
// # Read projections
//
// The Find* methods pass storage results through unchanged in shape.
//
// # Error Handling
//
// Services return the shared sentinel errors and never log, recover, or retry:
//   - [shared.ErrListNotFound], [shared.ErrGameNotFound] : the entity does not exist
//     (an empty list is reported as not found by Move)
//   - [shared.ErrIndexOutOfRange] : a move coordinate falls outside the list; nothing was written
//   - [shared.ErrTransactionFailed] : the store could not commit; nothing was written
package services
