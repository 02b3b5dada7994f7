// Package decode owns argument formatting and the decode pipeline.
//
// Ownership boundary:
// - schema-directed argument substitution into recovered templates
// - the driver loop: byte source -> frame decoder -> table lookup -> sink
// - per-record error reporting, kept apart from decoded output
package decode
