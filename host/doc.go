/*
Package host runs the token contract outside of a blockchain node.

Runtime is the invocation boundary: it authenticates nothing and trusts the
caller given in Call, executes a single contract method over a cached view of
the store and commits the view only if the method succeeds. Refunds, events
and scheduled receiver notifications of a failed invocation are dropped, and
the attached deposit is returned to the caller.

Transfer calls are executed in phases. TransferCall commits the transfer and
queues the receiver notification. Step dispatches the notification to the
Receiver registered for the account, then queues the resolution which is
executed by the next Step on behalf of the contract itself.
*/
package host
