// Package bridge turns plain Go functions and types into commands with typed,
// validated parameters, a shared versioned context, and lifecycle hooks.
//
// A Bridge owns the registered commands. Each command binds a function to a
// name, a ParamSource per parameter describing where its value comes from, a
// list of OutputDestinations describing where the result goes, and a schema
// generated from the function's parameter types. Invoking a command runs the
// execution pipeline:
//
//	pre-hooks -> defaults -> custom validators -> schema coercion -> call -> outputs -> post-hooks
//
// Validation and execution failures pass through the error hooks before they
// are returned. Functions take either a single struct whose fields are the
// parameters:
//
//	type GreetInput struct {
//		Name    string `bridge:"name"`
//		Excited bool   `bridge:"excited" default:"false"`
//	}
//
//	func Greet(in GreetInput) string
//
// or positional parameters named with the Args option:
//
//	b.Register(func(a, b int) int { return a + b }, bridge.Name("add"), bridge.Args("a", "b"))
//
// RegisterClass exposes a constructor and methods of a type as commands whose
// instances live in the bridge context, addressable by instance name.
//
// A Bridge is not safe for concurrent use.
package bridge
