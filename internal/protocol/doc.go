// Package protocol executes declarative step templates against an
// asynchronous, message-based remote-debugging connection.
//
// A template is an ordered list of steps: Call fires a method,
// AwaitResponse and AwaitNotification suspend until the matching reply
// or event arrives, Output returns accumulated values, and If gates a
// nested list on the session's options. Conditionals are resolved once
// before execution, so each run interprets a fixed sequence.
//
// One Conn multiplexes any number of concurrent sessions over a single
// transport: the pending-call table matches out-of-order responses to
// their correlation ids, and registered notification waiters claim
// matching unsolicited events while everything else is discarded.
package protocol
