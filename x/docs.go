/*
Package x contains the standard extensions of the ledger.

Extensions implement common functionality (Handler, Decorator,
etc.) and can be combined together to construct an application.
This package itself only declares the authentication contract shared by
all of them.
*/
package x
