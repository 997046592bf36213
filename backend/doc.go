// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package backend adapts [data.Decoder] and [data.Encoder] into the validators
// needed by a server side endpoint: request and response bodies, URL path
// parameters, query parameters and headers.
package backend
