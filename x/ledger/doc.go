/*
Package ledger is the bank of the capcall application.

It keeps a wallet of coins for every address and executes the instructions
returned by handlers: transfers between accounts, minting of new supply
into the custody account of a denomination, and withdrawals from custody.

Handlers never touch wallets. They build instructions with a Builder and
return them in the DeliverResult. The Dispatcher decorator moves the
funds attached to a transaction into the addressed instance and then
executes the instructions, in order, in the same store. Any failure fails
the whole transaction.
*/
package ledger
