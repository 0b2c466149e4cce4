/*
Package app contains standard implementations of a number of components.

It is a good place to get started building your first app, and to see
how to wire together the various components.

BaseApp and StoreApp bind weave handlers to the ABCI interface, Router
dispatches transactions by message path and ChainDecorators builds the
middleware stack every transaction passes through.
*/
package app
