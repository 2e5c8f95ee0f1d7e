// Package ports declares the boundary interfaces between the SME core and
// its adapters (MLME driver below, control clients above).
package ports

import "github.com/wlanstack/sme/internal/core/domain"

// DriverControl is the MLME command sink. Commands are consumed in the order
// they are sent; a send failure is fatal to the engine.
type DriverControl interface {
	Send(cmd domain.DriverCommand) error
}

// ClientEndpoint is one accepted control session. It is converted exactly
// once into its inbound request stream; after the stream closes, Err reports
// whether the close was a clean disconnect (nil) or a protocol failure.
type ClientEndpoint interface {
	// Requests converts the endpoint into its decoded command stream.
	// Conversion failure is a per-session error, not an engine error.
	Requests() (<-chan domain.Request, error)

	// Send writes one response back to the client.
	Send(resp domain.Response) error

	// Err reports the terminal stream error after Requests' channel closed.
	Err() error

	// Close releases the underlying transport. Safe to call more than once.
	Close() error
}
