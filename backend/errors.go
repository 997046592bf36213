// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package backend

import (
	"fmt"
	"strings"
)

// UnsupportedContentTypeError is returned by request body validators
// when the request content type is not supported.
type UnsupportedContentTypeError struct {
	ContentType string
	Supported   []string
}

// Error implements the [error] interface.
func (e *UnsupportedContentTypeError) Error() string {
	return fmt.Sprintf(
		"unsupported content type %q, supported content types: %s",
		e.ContentType,
		strings.Join(e.Supported, ", "),
	)
}

// BodyTooLargeError is returned by request body validators when
// the body exceeds the configured [MaxBodySize].
type BodyTooLargeError struct {
	Limit int64
}

// Error implements the [error] interface.
func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}
