/*
Package session holds the live control handle produced by a successful
connection.

A Session pairs a verified address with the transport bound to it. It has a
single owner: the dispatcher claims it once and no other component may send
commands through it. There is no teardown protocol with the device; the
session simply ends with the process.
*/
package session
