// Package proposal implements the registry of privileged actions awaiting a
// ratification decision. A proposal stays registered only while pending; the
// atomic Take operation guarantees each proposal is decided at most once.
package proposal
