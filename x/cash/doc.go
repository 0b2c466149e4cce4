/*
Package cash implements the account primitive of the chain.

Every account holds a single currency split into a free and a reserved part.
Only the free part can be moved. Reserving moves value from free to
reserved without changing the account total, unreserving moves it back.

An account whose total drops below the configured minimal balance is
removed from the state, unless something marked it alive. A transfer can
require the source account to survive (KeepAlive) or allow it to be
removed (AllowDeath).
*/
package cash
