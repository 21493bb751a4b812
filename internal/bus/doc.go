// Package bus provides a websocket client for the assistant's messagebus.
//
// # Overview
//
// The dashboard only needs three things from the bus: publish a message,
// subscribe to a message type, and issue a request that waits for one reply.
// These are captured by the Bus interface so the command processor and the
// event handlers can be tested against a fake; Client is the real websocket
// implementation.
//
// # Wire format
//
// Every frame is a JSON text message:
//
//	{"type": "speak", "data": {"utterance": "hello"}, "context": {}}
//
// Missing data and context objects are sent as {}.
//
// # Connection lifecycle
//
// Run dials the endpoint and keeps reading until the context is cancelled.
// Two local events are dispatched to handlers registered with On:
//
//   - connected: a websocket was opened
//   - reconnecting: a dial failed or an open socket dropped
//
// Failed dials back off exponentially from one second up to 30 seconds.
// Emit never queues; it returns ErrNotConnected while the socket is down so
// callers can show a notice instead of hanging.
//
// # Request and reply
//
// WaitForResponse registers a one-shot waiter for the reply type before
// emitting, so a fast reply cannot be missed. Without a deadline on the
// context it gives up after DefaultResponseTimeout (3 seconds). The default
// reply type is "<type>.response".
//
// # Endpoint
//
// The URL comes from the websocket block of mycroft.conf:
//
//	"websocket": {"host": "127.0.0.1", "port": 8181, "route": "/core", "ssl": false}
//
// which yields ws://127.0.0.1:8181/core. Addresses without a scheme get ws://,
// and http/https are mapped to ws/wss.
package bus
