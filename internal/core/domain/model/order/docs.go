// Package order contains the Order aggregate and its supporting value
// objects: the Status state machine, the Kind policy table, line Items and
// the Timeline of lifecycle deadlines.
//
// The aggregate is the only place order state changes: the progression
// engine advances status as deadlines pass, and the cancellation workflow
// moves it to Cancelled. The total price is computed once at creation from
// the line items and never recomputed.
package order
