package domain

import "encoding/json"

// Envelope is the {success, data, error} wrapper shared by every API response.
type Envelope[T any] struct {
	Success bool              `json:"success"`
	Data    *T                `json:"data,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details []json.RawMessage `json:"details,omitempty"`
}

// OK builds a successful envelope around data.
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data}
}

// Fail builds a failed envelope carrying msg.
func Fail[T any](msg string) Envelope[T] {
	return Envelope[T]{Success: false, Error: msg}
}
