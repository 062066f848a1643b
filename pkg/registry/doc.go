// Package registry holds the static table of remote commands: which token a
// user types, which action it triggers, and whether it takes free text.
package registry
