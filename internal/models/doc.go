// Package models defines domain entities and persistence interfaces for curated game lists.
//
// The package contains two categories of types:
//
// 1. Catalog entities: what a list is made of
//   - [Game] : a catalog entry with display metadata
//   - [GameSummary] : the read projection of a [Game] shown inside lists
//   - [GameList] : a named, ordered collection of games
//
// 2. Ordering records: how a list is ordered
//   - [Belonging] : "game G belongs to list L at position P"
//   - [PositionUpdate] : one entry of a reorder write set
//
// Positions within a list are dense and zero-based: a list of n games holds exactly the positions 0..n-1,
// and a game appears at most once per list. The ordering package computes changes to positions;
// persistence of positions goes through the ordered list store in the services package.
//
// The Repository[T] interface defines the standard create/read operations for database access.
package models
