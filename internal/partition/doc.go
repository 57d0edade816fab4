// Package partition defines the typed nodes produced by inline tokenizing and
// block parsing.
//
// Each node kind is its own Go type and carries only the fields legal for it.
// Span covers the kinds that hold either a string value or child partitions;
// setting one payload while the other is present fails with an
// *InvariantError. Lists, images and page breaks have no payload setters.
//
// Export lowers a node into a Record, the plain-data form consumed by
// renderers and the HTTP API.
package partition
