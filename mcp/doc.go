// Package mcp exposes the record dataset over the Model Context Protocol.
//
// Two tools are registered: list_records, which returns the decoded records,
// and fetch_record_images, which loads every image of one record through the
// shared cache and reports the aggregated outcome.
package mcp
