/*
Package domain contains the core value types shared by the romote packages.

It defines what an address is, how a discovered device descriptor becomes one,
the enumerated command identifiers, the error taxonomy, and the observability
events. The package is pure: no I/O, no persistence, no third-party imports.

# Key Entities

  - Address: a bare host identifier, never carrying a port.
  - DeviceHandle: a discovery result, converted by AddressFromHandle.
  - CommandID: a remote action, decoupled from tokens and wire keys.
  - TransportError: classifies failures as transient or rejected.
  - LifecycleHooks: optional callbacks for logging and metrics.
*/
package domain
