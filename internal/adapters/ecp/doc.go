// Package ecp implements the transport ports over Roku's External Control
// Protocol: keypresses are POSTs to http://<device>:8060/keypress/<Key>.
package ecp
