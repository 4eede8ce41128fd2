// Package notify fans table-change events out to live queries.
//
// A Hub is a broadcast registry: every published ChangeEvent is offered
// to every subscriber, and each subscriber keeps only the events whose
// table set intersects its own watched set. There is no topic keying;
// the filter lives with the subscriber, which keeps the hub trivial and
// the filtering rule in one place.
//
// Delivery guarantees, per subscriber:
//
//   - events arrive in publish order
//   - no event is dropped or coalesced; a burst of N qualifying events
//     is delivered as N events
//   - Publish never blocks on a slow subscriber (each subscriber drains
//     its own unbounded queue)
//
// Table names are NFC-normalized on entry, so differently-composed
// spellings of the same name still intersect.
package notify
