/*
Package dump provides I/O operations for collected states of the token
contract.

State collection (including storage) allows to move the ledger between
stores and to reproduce it in tests. A dump keeps the summary of the contract
along with its raw storage, so it can be inspected by a human and restored
into any store.

The package works with dumps stored in the file system using human-readable
encoding.
*/
package dump
