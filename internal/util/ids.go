package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewID generates a URL-safe random identifier for chunks, entities and
// relations. Falls back to the default nanoid alphabet size of 21.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, 21)
}

// MustNewID is NewID for call sites where an ID failure is unrecoverable
// anyway (test fixtures, startup).
func MustNewID() string {
	id, err := NewID()
	if err != nil {
		panic(err)
	}
	return id
}
