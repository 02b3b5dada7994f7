// Package wire owns the record-stream wire contract and framing primitives.
//
// Ownership boundary:
// - varint encoding primitives
// - frame layout: [level 1B][format_id varint][arg_len varint][arg_bytes]
// - streaming frame decoder with resynchronization
package wire
