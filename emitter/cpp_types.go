/*
File    : mana/emitter/cpp_types.go
*/
package emitter

import "strings"

// MapType maps one Mana type spelling to its C++ spelling. Integer and
// float widths map by exact size; string maps to the owned std::string;
// the generic containers map to their runtime equivalents; tuples map to
// std::tuple, fixed arrays to std::array, dynamic arrays to mana::Vec;
// dyn Trait maps to an owned interface-object handle.
func MapType(manaType string) string {
	switch manaType {
	case "", "void":
		return "void"
	case "i8":
		return "int8_t"
	case "i16":
		return "int16_t"
	case "i32":
		return "int32_t"
	case "i64", "int":
		return "int64_t"
	case "u8":
		return "uint8_t"
	case "u16":
		return "uint16_t"
	case "u32":
		return "uint32_t"
	case "u64":
		return "uint64_t"
	case "f32":
		return "float"
	case "f64", "float":
		return "double"
	case "bool":
		return "bool"
	case "char":
		return "char"
	case "string", "String", "str":
		return "std::string"
	case "auto":
		return "auto"
	}

	// Generic containers: Result<T,E>, Option<T>, Vec<T>, HashMap<K,V>
	if open := strings.IndexByte(manaType, '<'); open >= 0 && strings.HasSuffix(manaType, ">") {
		base := manaType[:open]
		inner := manaType[open+1 : len(manaType)-1]

		// Trait objects: Box<dyn Trait>
		if base == "Box" && strings.HasPrefix(inner, "dyn ") {
			return "std::unique_ptr<I" + inner[4:] + ">"
		}

		mapped := make([]string, 0, 2)
		for _, param := range splitTopLevel(inner) {
			mapped = append(mapped, MapType(param))
		}
		joined := strings.Join(mapped, ", ")
		switch base {
		case "Result", "Option", "Vec", "HashMap":
			return "mana::" + base + "<" + joined + ">"
		}
		return base + "<" + joined + ">"
	}

	// Array types: [N]T fixed, []T dynamic
	if strings.HasPrefix(manaType, "[") {
		if close := strings.IndexByte(manaType, ']'); close >= 0 {
			size := manaType[1:close]
			elem := MapType(manaType[close+1:])
			if size == "" {
				return "mana::Vec<" + elem + ">"
			}
			return "std::array<" + elem + ", " + size + ">"
		}
	}

	// Tuple types: (T1, T2, ...)
	if strings.HasPrefix(manaType, "(") && strings.HasSuffix(manaType, ")") {
		parts := splitTopLevel(manaType[1 : len(manaType)-1])
		mapped := make([]string, 0, len(parts))
		for _, part := range parts {
			mapped = append(mapped, MapType(part))
		}
		return "std::tuple<" + strings.Join(mapped, ", ") + ">"
	}

	// Trait objects
	if strings.HasPrefix(manaType, "dyn ") {
		return "std::unique_ptr<I" + manaType[4:] + ">"
	}
	if strings.HasPrefix(manaType, "&dyn ") {
		return "I" + manaType[5:] + "*"
	}

	// References and pointers
	if strings.HasPrefix(manaType, "&mut ") {
		return MapType(manaType[5:]) + "&"
	}
	if strings.HasPrefix(manaType, "&") {
		return "const " + MapType(manaType[1:]) + "&"
	}
	if strings.HasPrefix(manaType, "*") {
		return MapType(manaType[1:]) + "*"
	}

	return manaType
}

// splitTopLevel splits a comma-separated type list at depth zero,
// trimming surrounding spaces.
func splitTopLevel(inner string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i <= len(inner); i++ {
		var ch byte = ','
		if i < len(inner) {
			ch = inner[i]
		}
		switch ch {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				part := strings.TrimSpace(inner[start:i])
				if part != "" {
					parts = append(parts, part)
				}
				start = i + 1
			}
		}
	}
	return parts
}

// escapeCppString escapes a processed string literal back into C++ source
// form.
func escapeCppString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			sb.WriteString("\\n")
		case '\t':
			sb.WriteString("\\t")
		case '\r':
			sb.WriteString("\\r")
		case '\\':
			sb.WriteString("\\\\")
		case '"':
			sb.WriteString("\\\"")
		case 0:
			sb.WriteString("\\0")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
