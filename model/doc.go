// Package model contains the in-memory representation of privileged grant
// commands and supporting types used by the gate service.
//
// A command is typically parsed from chat text or a structured interaction
// payload into the kinds defined in the `command` sub-package. The root model
// package simply aggregates those building blocks so that they can be
// referenced from other parts of the code base with a single import.
package model
