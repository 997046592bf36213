// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package telemetry

import (
	"fmt"

	"github.com/z5labs/sdk-go/concurrent"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// OTLPConnType selects the transport used to export telemetry.
type OTLPConnType string

const (
	// OTLPNone disables exporting, as does an empty type.
	OTLPNone OTLPConnType = "none"
	OTLPGRPC OTLPConnType = "grpc"
	OTLPHTTP OTLPConnType = "http"
)

// OTLP configures the collector which telemetry is exported to.
type OTLP struct {
	Type   OTLPConnType `config:"type"`
	Target string       `config:"target"`
}

// UnknownOTLPConnTypeError is returned for any [OTLPConnType]
// other than the ones defined by this package.
type UnknownOTLPConnTypeError struct {
	Type OTLPConnType
}

// Error implements the [error] interface.
func (e UnknownOTLPConnTypeError) Error() string {
	return fmt.Sprintf("unknown otlp conn type: %q", e.Type)
}

// Conns shares gRPC client connections between the exporters
// of every signal targeting the same collector.
type Conns struct {
	cache concurrent.Cache[string, *grpc.ClientConn]
}

func (c *Conns) get(target string) (*grpc.ClientConn, error) {
	return c.cache.GetOrNew(target, func() (*grpc.ClientConn, error) {
		// TODO: support secure transport credentials
		return grpc.NewClient(
			target,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	})
}
