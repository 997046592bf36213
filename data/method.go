// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package data

import "net/http"

// Decoders for the supported HTTP methods. Each one only accepts its
// exact method name.
var (
	MethodDelete  = methodDecoder(http.MethodDelete)
	MethodGet     = methodDecoder(http.MethodGet)
	MethodHead    = methodDecoder(http.MethodHead)
	MethodOptions = methodDecoder(http.MethodOptions)
	MethodPatch   = methodDecoder(http.MethodPatch)
	MethodPost    = methodDecoder(http.MethodPost)
	MethodPut     = methodDecoder(http.MethodPut)
	MethodTrace   = methodDecoder(http.MethodTrace)
)

var methods = map[string]Decoder[string]{
	http.MethodDelete:  MethodDelete,
	http.MethodGet:     MethodGet,
	http.MethodHead:    MethodHead,
	http.MethodOptions: MethodOptions,
	http.MethodPatch:   MethodPatch,
	http.MethodPost:    MethodPost,
	http.MethodPut:     MethodPut,
	http.MethodTrace:   MethodTrace,
}

func methodDecoder(method string) Decoder[string] {
	return NewDecoder[string](Literal(method))
}

// Method returns the decoder for the given HTTP method, if it is supported.
func Method(method string) (Decoder[string], bool) {
	d, ok := methods[method]
	return d, ok
}

// ValidateMethod checks that method is one of the supported HTTP methods.
func ValidateMethod(method string) error {
	for _, d := range methods {
		if _, err := d.Decode(method); err == nil {
			return nil
		}
	}
	return ExceptionAsValidationError("unsupported HTTP method: " + method)
}
