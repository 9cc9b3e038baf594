// Package dispatch delivers queued workflow notifications to the external
// orchestration runner. Notifications are written to an outbox table in the
// same transaction as the state change that produced them; the dispatcher
// drains the outbox asynchronously so webhook latency and downtime never
// touch the transition path. Delivery is at-least-once with exponential
// backoff between attempts.
package dispatch
