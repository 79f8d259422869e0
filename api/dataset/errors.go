package dataset

// ErrorCode defines error types for loading raw records
type ErrorCode string

const (
	// ErrLoad represents failures reading the record source
	ErrLoad ErrorCode = "LoadError"

	// ErrFormat represents a source that is not a list of strings
	ErrFormat ErrorCode = "FormatError"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
