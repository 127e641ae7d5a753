// Package batch provides helpers for tools that accept one id or many.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Processing items sequentially while collecting partial failures
//   - Formatting batch results in a consistent structure
package batch
