// Package detail builds the detail page of a record from an aggregated fetch.
package detail

import (
	"fmt"
	"strings"

	"github.com/ka2n/recview/api/aggregate"
	"github.com/ka2n/recview/api/record"
	"github.com/ka2n/recview/api/resource"
	"github.com/morikuni/failure/v2"
)

// ErrorCode defines error types for building a detail page
type ErrorCode string

const (
	// ErrLoadFailed represents a record whose images failed to load
	ErrLoadFailed ErrorCode = "LoadFailed"

	// ErrIncomplete represents a record without all of its images
	ErrIncomplete ErrorCode = "Incomplete"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Detail is a record with every image resolved.
type Detail struct {
	Title   string
	Images  [record.SlotCount]*resource.Resource
	Details string
}

// Build combines rec with the aggregated result. Any failed fetch fails the
// whole page; so does a record that is missing an image slot.
func Build(rec record.Record, result aggregate.Result) (Detail, error) {
	if len(result.Errors) > 0 {
		return Detail{}, failure.New(ErrLoadFailed,
			failure.Message(messageOf(result.Errors[0])),
			failure.Context{"title": rec.Title, "errors": fmt.Sprint(len(result.Errors))},
		)
	}

	for _, res := range result.Resources {
		if res == nil {
			return Detail{}, failure.New(ErrIncomplete,
				failure.Message("Error loading one or more images"),
				failure.Context{"title": rec.Title},
			)
		}
	}

	return Detail{
		Title:   rec.Title,
		Images:  result.Resources,
		Details: rec.Details,
	}, nil
}

func messageOf(err error) string {
	if msg := failure.MessageOf(err); msg != "" {
		return msg.String()
	}
	return err.Error()
}

// Markdown renders the page for a terminal renderer.
func Markdown(d Detail) string {
	var b strings.Builder

	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if d.Details != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Details)
	}

	b.WriteString("| Slot | Format | Size | Bytes | URL |\n")
	b.WriteString("|------|--------|------|-------|-----|\n")
	for i, res := range d.Images {
		slot := record.Slot(i)
		if res == nil {
			fmt.Fprintf(&b, "| %s | - | - | - | - |\n", slot)
			continue
		}
		bounds := res.Bounds()
		url := ""
		if res.Locator != nil {
			url = res.Locator.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %dx%d | %d | %s |\n",
			slot, res.Format, bounds.Dx(), bounds.Dy(), res.Size, url)
	}

	return b.String()
}
