/*
File    : mana/emitter/builtins.go
*/
package emitter

// builtinDispatch rewrites recognizable bare-name calls into their
// runtime-namespaced C++ spellings. Math helpers forward to the standard
// math library.
var builtinDispatch = map[string]string{
	// Printing and formatting
	"println": "mana::println",
	"print":   "mana::print",
	"format":  "mana::format",

	// Option/Result constructors (both spellings)
	"Some": "mana::Some",
	"some": "mana::Some",
	"Ok":   "mana::Ok",
	"ok":   "mana::Ok",
	"Err":  "mana::Err",
	"err":  "mana::Err",

	// Assertions
	"assert":          "mana::assert_true",
	"assert_true":     "mana::assert_true",
	"assert_false":    "mana::assert_false",
	"assert_eq":       "mana::assert_eq",
	"assert_ne":       "mana::assert_ne",
	"assert_msg":      "mana::assert_msg",
	"assert_some":     "mana::assert_some",
	"assert_none":     "mana::assert_none",
	"assert_ok":       "mana::assert_ok",
	"assert_err":      "mana::assert_err",
	"assert_contains": "mana::assert_contains",
	"assert_empty":    "mana::assert_empty",
	"assert_len":      "mana::assert_len",
	"assert_str_eq":   "mana::assert_str_eq",
	"assert_gt":       "mana::assert_gt",
	"assert_lt":       "mana::assert_lt",
	"assert_ge":       "mana::assert_ge",
	"assert_le":       "mana::assert_le",
	"assert_approx":   "mana::assert_approx",

	// File helpers
	"read_file":   "mana::read_file",
	"write_file":  "mana::write_file",
	"append_file": "mana::append_file",
	"file_exists": "mana::file_exists",
	"delete_file": "mana::delete_file",
	"read_lines":  "mana::read_lines",

	// Array/slice helpers
	"first":   "mana::first",
	"last":    "mana::last",
	"concat":  "mana::concat",
	"flatten": "mana::flatten",
	"zip":     "mana::zip",
	"unzip":   "mana::unzip",
	"repeat":  "mana::repeat",

	// Time and random
	"time_now_ms":   "mana::time_now_ms",
	"time_now_secs": "mana::time_now_secs",
	"sleep_ms":      "mana::sleep_ms",
	"random_int":    "mana::random_int",

	// Paths and environment
	"path_join":      "mana::path_join",
	"path_parent":    "mana::path_parent",
	"path_filename":  "mana::path_filename",
	"path_extension": "mana::path_extension",
	"is_directory":   "mana::is_directory",
	"cwd":            "mana::cwd",
	"env_get":        "mana::env_get",

	// Vec utilities
	"vec_sort":     "mana::vec_sort",
	"vec_reverse":  "mana::vec_reverse",
	"vec_contains": "mana::vec_contains",

	// String helpers
	"len":          "mana::len",
	"is_empty":     "mana::is_empty",
	"to_string":    "mana::to_string",
	"trim":         "mana::trim",
	"split":        "mana::split",
	"join":         "mana::join",
	"starts_with":  "mana::starts_with",
	"ends_with":    "mana::ends_with",
	"contains":     "mana::contains",
	"replace":      "mana::replace",
	"to_uppercase": "mana::to_uppercase",
	"to_lowercase": "mana::to_lowercase",
	"substr":       "mana::substr",
	"read_line":    "mana::read_line",
	"parse_int":    "mana::parse_int",
	"parse_float":  "mana::parse_float",

	// Math helpers: mana wrappers and std forwards
	"min":   "mana::min",
	"max":   "mana::max",
	"clamp": "mana::clamp",
	"abs":   "std::abs",
	"sqrt":  "std::sqrt",
	"pow":   "std::pow",
	"sin":   "std::sin",
	"cos":   "std::cos",
	"tan":   "std::tan",
	"asin":  "std::asin",
	"acos":  "std::acos",
	"atan":  "std::atan",
	"atan2": "std::atan2",
	"floor": "std::floor",
	"ceil":  "std::ceil",
	"round": "std::round",
	"trunc": "std::trunc",
	"log":   "std::log",
	"log10": "std::log10",
	"log2":  "std::log2",
	"exp":   "std::exp",
}

// stringMethods is the method-name set that emits as global runtime calls
// on non-Vec receivers, since std::string does not carry these methods.
var stringMethods = map[string]bool{
	"starts_with":  true,
	"ends_with":    true,
	"contains":     true,
	"trim":         true,
	"substr":       true,
	"replace":      true,
	"to_uppercase": true,
	"to_lowercase": true,
	"split":        true,
	"repeat":       true,
	"reverse":      true,
	"join":         true,
}
