/*
Package capital implements the capital call escrow.

An instance holds the terms of a single capital commitment between a
capital provider and a capital user. The provider commits the exact
capital asset to the instance, may recall it while the due date has not
passed, and the user finally calls the capital (settling the optional
settlement asset to the provider) or cancels the instance.

Every decision is taken by the Engine, a pure function of the stored
state, the invocation and the message. The Engine never moves value: it
returns the new state together with an ordered list of instructions that
the host executes within the same atomic transaction.
*/
package capital
