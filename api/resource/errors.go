package resource

// ErrorCode defines error types for resource fetching
type ErrorCode string

const (
	// ErrTransport represents failures retrieving the raw bytes
	ErrTransport ErrorCode = "TransportError"

	// ErrDataCorrupted represents bytes that could not be decoded into a resource
	ErrDataCorrupted ErrorCode = "DataCorrupted"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
