// Package kernel provides core domain primitives used throughout the order
// lifecycle engine.
//
// The package includes:
//   - UUID: A value object for unique identifiers (order tokens) with
//     validation and comparison capabilities
//   - Money: A value object carrying ledger amounts as int64 minor currency
//     units so balance arithmetic stays exact
//
// These primitives enforce domain invariants and validation rules, ensuring
// that domain objects are always in a valid state. They are immutable and
// thread-safe, making them suitable for concurrent use. Zero values are
// invalid and must be constructed through the provided factory functions.
package kernel
