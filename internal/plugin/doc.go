// Package plugin loads user-defined words written in Lua.
//
// Scripts run in the sandbox from package plugin/lua and register words
// through the rpn table:
//
//	rpn.word("hyp", 2, function(a, b)
//	    return math.sqrt(a * a + b * b)
//	end)
//
// A word takes arity operands (0..MaxArity) deepest-first and returns one
// number. Names that parse as numbers or match a built-in token are
// refused, so a word can never change what an existing line means.
// Registering an existing name replaces the earlier word.
//
// Registry implements dispatcher.WordSet. A word call is one mutating
// action: if the Lua function raises an error, exceeds its instruction
// budget or returns a non-number, the command is rejected and the stack
// is left as it was.
package plugin
