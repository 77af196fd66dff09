// Package guard implements the constructor-guard pattern used by the domain
// model. Embedding a ConstructorGuard in a value object or aggregate makes the
// zero value detectably invalid, so code can require that instances were built
// through their designated constructors.
package guard

import "errors"

// ErrNotConstructed is returned by Validate when no specific error is supplied
// for an object that was not created through its constructor.
var ErrNotConstructed = errors.New("object must be created via its constructor")

// ConstructorGuard marks whether the embedding object went through a
// constructor. The zero value reports the object as not constructed.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state. Constructors
// assign it to the guard field of the object they build.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it
// returns notConstructedErr, or ErrNotConstructed when notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.isConstructed {
		return nil
	}

	if notConstructedErr == nil {
		return ErrNotConstructed
	}

	return notConstructedErr
}
