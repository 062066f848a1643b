/*
Package connect turns "no device yet" into a verified session.

The Manager walks an explicit state machine:

	idle → try_cache → discover → no_devices | choose → manual → verify → established

Any prompt can end it in the cancelled state. A cached address is tried
first and is never rewritten when it verifies; a freshly discovered or
typed address is saved once, after its first successful verification.
Failed verifications send the user back to discovery, or to the manual
prompt when the address was typed.
*/
package connect
