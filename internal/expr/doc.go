// Package expr defines the contract every node of a compiled remap program
// implements, and the leaf nodes the compiler produces directly.
//
// An Expression has two faces:
//
//	Resolve(ctx)   runtime: evaluate against one event, yielding a value
//	               or a failure
//	TypeDef(state) compile time: describe the value kind the node produces
//	               and whether evaluation can fail, without evaluating
//
// Function calls are Expressions too; they are built by function.Function
// implementations and own their argument sub-expressions.
//
// STATE OBJECTS:
//
// State carries what the compiler knows statically (declared kinds of event
// paths). Context carries the event being processed. Both are passed
// explicitly; nodes never hold references to them and never keep state
// between calls, so a compiled tree can be shared by concurrent evaluations
// as long as each evaluation uses its own Context.
package expr
