package ascentobs

import "github.com/judehek/ascent-obs/internal/config"

// Transport defines the interface for worker communication.
// Implement it to drive the client without spawning a worker, for example in
// tests. Inject it with WithTransport.
type Transport = config.Transport
