// internal/api/types/response.go
package types

// ListResponse wraps every list endpoint's payload.
// T represents the type of data contained in the 'Data' slice.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// NewListResponse never serializes a nil slice as null.
func NewListResponse[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Data: data, Count: len(data)}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
