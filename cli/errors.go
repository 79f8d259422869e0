package cli

// ErrorCode defines error types for CLI operations
type ErrorCode string

const (
	InvalidArguments ErrorCode = "InvalidArguments"
	RecordNotFound   ErrorCode = "RecordNotFound"
	EmptySlot        ErrorCode = "EmptySlot"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
