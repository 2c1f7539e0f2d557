package api

import "github.com/danielgtaylor/huma/v2"

// envelopeVersion is bumped when the response envelope shape changes.
const envelopeVersion = 1

// Envelope wraps every successful response body so clients can rely on
// a stable outer shape.
type Envelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// EnvelopeTransformer wraps response bodies in the standard envelope.
// Error bodies implement huma.StatusError and are left alone.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if _, isErr := v.(huma.StatusError); isErr {
		return v, nil
	}
	if len(status) > 0 && status[0] != '2' {
		return v, nil
	}
	return &Envelope{V: envelopeVersion, Success: true, Data: v}, nil
}
