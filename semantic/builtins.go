/*
File    : mana/semantic/builtins.go
*/
package semantic

import (
	"github.com/mana-lang/mana/scope"
	"github.com/mana-lang/mana/types"
)

// operatorTraits are the built-in operator traits: an impl for one of these
// needs no trait declaration, and associated-type checking is skipped.
var operatorTraits = map[string]bool{
	"Add": true, "Sub": true, "Mul": true, "Div": true, "Rem": true,
	"Eq": true, "Ne": true, "Lt": true, "Gt": true, "Le": true, "Ge": true,
	"Neg": true, "Not": true,
	"BitAnd": true, "BitOr": true, "BitXor": true, "Shl": true, "Shr": true,
}

// builtinTraitImpls seeds the trait table for the built-in types: common
// traits like Add, Eq, Clone, Display, Default hold implicitly.
var builtinTraitImpls = map[string]map[string]bool{
	"i32":    {"Add": true, "Sub": true, "Mul": true, "Div": true, "Rem": true, "Eq": true, "Ord": true, "Copy": true, "Clone": true, "Default": true, "Display": true},
	"i64":    {"Add": true, "Sub": true, "Mul": true, "Div": true, "Rem": true, "Eq": true, "Ord": true, "Copy": true, "Clone": true, "Default": true, "Display": true},
	"f32":    {"Add": true, "Sub": true, "Mul": true, "Div": true, "Eq": true, "Copy": true, "Clone": true, "Default": true, "Display": true},
	"f64":    {"Add": true, "Sub": true, "Mul": true, "Div": true, "Eq": true, "Copy": true, "Clone": true, "Default": true, "Display": true},
	"bool":   {"Eq": true, "Copy": true, "Clone": true, "Default": true, "Display": true},
	"string": {"Eq": true, "Clone": true, "Default": true, "Display": true},
}

// builtinStringMethods is the method-name set the emitter rewrites to
// global runtime calls on non-Vec receivers; method lookup falls through to
// these when no user method matches.
var builtinStringMethods = map[string]bool{
	"len": true, "is_empty": true, "to_string": true, "starts_with": true,
	"ends_with": true, "contains": true, "trim": true, "substr": true,
	"split": true, "join": true, "replace": true, "to_uppercase": true,
	"to_lowercase": true, "repeat": true, "reverse": true,
}

// builtinEntry pairs a builtin function name with its declared return type.
type builtinEntry struct {
	Name string
	Type types.Type
}

// builtinFunctions lists every bare-name builtin and its return type.
// Unknown return types depend on context (Ok, Err, Some, container helpers);
// the unknown type silently absorbs so secondary errors do not cascade.
var builtinFunctions = []builtinEntry{
	// Printing and formatting
	{"print", types.VoidType()},
	{"println", types.VoidType()},
	{"format", types.Str()},

	// Option/Result constructors
	{"Ok", types.UnknownType()},
	{"Err", types.UnknownType()},
	{"Some", types.UnknownType()},

	// String helpers
	{"len", types.I32()},
	{"is_empty", types.Boolean()},
	{"to_string", types.Str()},
	{"starts_with", types.Boolean()},
	{"ends_with", types.Boolean()},
	{"contains", types.Boolean()},
	{"trim", types.Str()},
	{"substr", types.Str()},

	// Math helpers
	{"abs", types.I32()},
	{"min", types.I32()},
	{"max", types.I32()},
	{"clamp", types.I32()},
	{"sqrt", types.F64()},
	{"sin", types.F64()},
	{"cos", types.F64()},
	{"tan", types.F64()},
	{"asin", types.F64()},
	{"acos", types.F64()},
	{"atan", types.F64()},
	{"atan2", types.F64()},
	{"floor", types.F64()},
	{"ceil", types.F64()},
	{"round", types.F64()},
	{"trunc", types.F64()},
	{"log", types.F64()},
	{"log10", types.F64()},
	{"log2", types.F64()},
	{"exp", types.F64()},
	{"pow", types.F64()},

	// I/O helpers
	{"read_line", types.Str()},
	{"parse_int", types.UnknownType()},   // Option<i64>
	{"parse_float", types.UnknownType()}, // Option<f64>

	// Array/slice helpers
	{"first", types.UnknownType()},
	{"last", types.UnknownType()},
	{"concat", types.UnknownType()},
	{"flatten", types.UnknownType()},
	{"zip", types.UnknownType()},
	{"unzip", types.UnknownType()},
	{"repeat", types.UnknownType()},

	// File helpers
	{"read_file", types.UnknownType()},   // Result<string, string>
	{"write_file", types.UnknownType()},  // Result<void, string>
	{"append_file", types.UnknownType()}, // Result<void, string>
	{"file_exists", types.Boolean()},
	{"delete_file", types.UnknownType()}, // Result<void, string>
	{"read_lines", types.UnknownType()},  // Result<Vec<string>, string>

	// Assertions
	{"assert", types.VoidType()},
	{"assert_true", types.VoidType()},
	{"assert_false", types.VoidType()},
	{"assert_eq", types.VoidType()},
	{"assert_ne", types.VoidType()},
	{"assert_msg", types.VoidType()},
	{"assert_some", types.VoidType()},
	{"assert_none", types.VoidType()},
	{"assert_ok", types.VoidType()},
	{"assert_err", types.VoidType()},
	{"assert_contains", types.VoidType()},
	{"assert_empty", types.VoidType()},
	{"assert_len", types.VoidType()},
	{"assert_str_eq", types.VoidType()},
	{"assert_gt", types.VoidType()},
	{"assert_lt", types.VoidType()},
	{"assert_ge", types.VoidType()},
	{"assert_le", types.VoidType()},
	{"assert_approx", types.VoidType()},

	// Time and random
	{"time_now_ms", types.I64()},
	{"time_now_secs", types.I64()},
	{"sleep_ms", types.VoidType()},
	{"random_int", types.I64()},

	// Paths and environment
	{"path_join", types.Str()},
	{"path_parent", types.Str()},
	{"path_filename", types.Str()},
	{"path_extension", types.Str()},
	{"is_directory", types.Boolean()},
	{"cwd", types.Str()},
	{"env_get", types.UnknownType()}, // Option<string>

	// Vec utilities
	{"vec_sort", types.VoidType()},
	{"vec_reverse", types.VoidType()},
	{"vec_contains", types.Boolean()},

	// Static constructors (Type::new style, mangled to Type_new)
	{"Vec::new", types.UnknownType()},
	{"Vec::with_capacity", types.UnknownType()},
	{"HashMap::new", types.UnknownType()},
	{"HashMap::with_capacity", types.UnknownType()},
	{"HashSet::new", types.UnknownType()},
	{"Deque::new", types.UnknownType()},
	{"String::new", types.Str()},
	{"Option::none", types.UnknownType()},
}

// registerBuiltins declares every builtin in the module scope and records
// their names for method fall-through and did-you-mean candidates. Static
// constructor names are declared under their mangled spelling (Vec_new) so
// the call path's Type::func transformation finds them.
func (an *Analyzer) registerBuiltins() {
	for _, entry := range builtinFunctions {
		an.BuiltinFuncs[entry.Name] = true
		an.Scopes.Top.Declare(&scope.Symbol{
			Name:    mangleScopedName(entry.Name),
			Type:    entry.Type,
			Mutable: false,
		})
	}
}
