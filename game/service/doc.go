// Package service implements the event orchestrator, the only component
// that talks to the transport, persistence, and broker collaborators.
//
// The orchestrator sequences the queue, the session registry, and the
// rating calculator: it turns inbound connection events into queue and
// session mutations, and mutation results into outbound notifications.
// The queue and session packages never talk to the transport themselves;
// every user-visible message originates here.
//
// Each orchestrator method is one discrete unit of work and is safe under
// true parallel invocation. All persistence, broker, and notification calls
// happen after the queue or session locks have been released; the two lock
// classes are never nested.
package service
