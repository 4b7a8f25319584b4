// Package notifications tells an external event-processing endpoint that
// this node became leader. Delivery is best-effort with a strict no-throw
// contract at the call site: a failed or slow notification is logged and
// dropped, and never influences the lock or exit protocol.
package notifications
