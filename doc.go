// Package authclient is a client SDK for a token-based account service.
// It maintains a single authoritative session snapshot (identity, bearer
// token, loading flag, last error), persists that snapshot through a
// pluggable durable slot, and wraps every remote account operation in a
// fixed request lifecycle: flip loading, issue exactly one HTTP request,
// then apply the success transition or a normalized failure message.
//
// The package is designed for concurrent consumers: Client and Store
// methods are safe to call from multiple goroutines after initialization
// through [Builder.Build].
//
// # Architecture boundaries
//
// authclient is the public surface. It exposes [Client], [Builder],
// [Config], [Store], and value types (Snapshot, AuditEvent,
// MetricsSnapshot). Durable persistence backends live under storage/ and
// are injected as a [storage.Slot]; the SDK never reaches around the slot
// interface to touch a backend directly.
//
// # What this package must NOT do
//
//   - Decide authorization outcomes locally. Authenticated requests are
//     issued even without a token; the server's rejection flows back
//     through the same error normalization as every other failure.
//   - Log the user out on its own. Only Logout, LogoutRemote, and a
//     successful DeleteUser clear the session.
//   - Let a storage or payload problem escape as a panic or unhandled
//     error. Corrupt persisted state degrades to the unauthenticated
//     default; malformed server payloads degrade to a fixed per-operation
//     message.
//
// # Failure contract
//
// Every Client operation resets the loading flag before returning, in
// both success and failure paths. Failures are recorded on the session
// snapshot as one display string and also returned as an *[APIError].
package authclient
