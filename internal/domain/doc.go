// Package domain defines the core business entities and errors for the
// memory-training application: the casillero mental (numbered mnemonic
// slots and the rolling review session over them) and daily exercises for
// the numbers, objects and concepts modules.
package domain
