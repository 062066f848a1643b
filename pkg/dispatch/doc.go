// Package dispatch runs the interactive command loop over an established session.
package dispatch
