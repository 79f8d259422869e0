// Package api wires the record and image core together.
//
// The api package provides:
// - Loading and decoding raw records from the bundled or a local dataset
// - A process-wide image cache shared by every fetch
// - Concurrent all-or-nothing fetching of a record's images
// - Detail pages built from the fetched images
package api
