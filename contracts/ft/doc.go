/*
Package ft implements HTPC fungible token contract.

The contract keeps balances of all token holders. It is a NEP-141 compatible
fungible token with NEP-145 storage management: an account must pay for the
storage its ledger entry consumes before it can hold tokens. Registration
cost is fixed and computed once at initialization as the storage consumed by
the entry of the longest possible account, multiplied by the current byte
price.

Transfers come in two flavours. Transfer moves tokens between registered
accounts. TransferCall also notifies the receiver, which may decline part of
the amount. The notification and its resolution are separate invocations
scheduled by the host, so the ledger may change between them. The resolution
returns declined tokens to the sender only as far as the receiver still holds
them.

# Contract events

Events are emitted in NEP-297 format, see package events.

	ft_mint:
	  - owner_id: string
	  - amount: string
	  - memo: optional string

	ft_transfer:
	  - old_owner_id: string
	  - new_owner_id: string
	  - amount: string
	  - memo: optional string

	ft_burn:
	  - owner_id: string
	  - amount: string
	  - memo: optional string
*/
package ft

/*
Contract storage model.

# Summary
Key-value storage format:
  - 's' -> std.Serialize(State)
    contract-wide state: version, total supply, storage bytes of the longest
    account and transfer call nonce
  - 'm' -> std.Serialize(FungibleTokenMetadata)
    token metadata, written once
  - a<account> -> std.Serialize(int)
    balance sheet; presence of the key means the account is registered
  - p<transfer ID> -> std.Serialize(PendingTransfer)
    transfer calls waiting for the receiver notification or its resolution

# Accounting
Sum of all balances always equals the total supply. The supply changes only
when tokens are burned: forced unregistration of a holder or refund of a
transfer call to a deleted sender.
*/
