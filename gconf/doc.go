/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps its configuration as a single entry saved under its
package name. The configuration is loaded from the genesis file "conf"
section during chain initialization and read back by handlers whenever
they need it.
*/
package gconf
