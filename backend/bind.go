// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package backend

import "github.com/goccy/go-json"

// Bind converts validated values, e.g. the result of [StringDecoderSpec.Validate],
// into T using their JSON representation.
func Bind[T any](values map[string]any) (T, error) {
	var t T
	b, err := json.Marshal(values)
	if err != nil {
		return t, err
	}
	err = json.Unmarshal(b, &t)
	return t, err
}
