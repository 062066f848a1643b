/*
Package ports defines the interfaces between the romote core and its adapters.

The connection manager and the dispatcher only depend on these contracts:
discovery, transport, address persistence, and the interactive prompt. The
concrete implementations live under internal/adapters and pkg/runner.
*/
package ports
