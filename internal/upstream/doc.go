// Package upstream implements the authenticated client pipeline for the
// Auto88 dealership API: session state with publish-on-change semantics, a
// request gate that decorates or blocks outgoing calls against a fixed
// public-endpoint allowlist, and a response reconciler that recovers from
// credential expiry with at most one silent token renewal per original call.
//
// The pipeline is the only path to the upstream API. Typed endpoint clients
// live in the api subpackage; presentation hooks (toasts, navigation) are
// injected through the ports package so the pipeline stays UI-agnostic.
package upstream
