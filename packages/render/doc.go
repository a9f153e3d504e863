// Package render provides the pure text-rendering helpers used by the
// stream formatter.
//
// It provides functionality for:
//   - Natural-language duration formatting and list joining
//   - Indentation strings for nested test levels
//   - Structured error dumps with cause chains
//   - A color palette value object and terminal color detection
//
// Helpers never consult process globals; color decisions are made once and
// carried in a Palette.
package render
