// Package ownership implements the reservation/transfer handoff protocol for
// module and region objects.
//
// A Registry separates "this id exists" (Reserve) from "this id owns an
// object" (Transfer). Ids are plain int64 snapshots handed out by the vm's
// id allocators; they are never tied to the atomic counter cells that
// generated them. Entries are partitioned across lock shards so concurrent
// operations on unrelated ids do not serialize.
//
// Transfer failures are explicit: an unreserved id yields KindUnknownID and
// a second transfer yields KindDuplicateTransfer, and in both cases the
// caller keeps ownership of the object it tried to hand off.
package ownership
