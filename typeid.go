package entitree

import "reflect"

// TypeID is the stable, equality-comparable token the package uses to
// identify a concrete static type. reflect.Type already satisfies this: two
// reflect.Type values obtained for the same concrete type compare equal for
// the lifetime of the process, which is all a type-identity token needs.
type TypeID = reflect.Type

// typeOf returns the TypeID for T, including for interface- and
// pointer-shaped T, without requiring a live value of T.
func typeOf[T any]() TypeID {
	var zero T
	return reflect.TypeOf(&zero).Elem()
}
