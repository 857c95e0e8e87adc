// Package codec encodes structured card metadata into the free-text card
// body and decodes it back, across every description format version the
// board has ever carried.
//
// The encoder always writes the current version. Decoding dispatches on the
// trailing "Version: X.Y.Z" marker through a version-keyed parser table so
// that adding a version can never alter how older bodies are read.
package codec
