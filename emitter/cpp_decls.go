/*
File    : mana/emitter/cpp_decls.go
*/
package emitter

import (
	"strconv"

	"github.com/mana-lang/mana/parser"
)

// emitGenericsHeader emits template<typename T, ...> for generic
// declarations.
func (em *Emitter) emitGenericsHeader(generics []string) {
	if len(generics) == 0 {
		return
	}
	em.write("template<")
	for i, name := range generics {
		if i > 0 {
			em.write(", ")
		}
		em.write("typename " + name)
	}
	em.write(">\n")
}

// emitStruct emits one struct declaration (generic structs become
// templates). Field defaults become member initializers.
func (em *Emitter) emitStruct(d *parser.StructDecl) {
	em.emitGenericsHeader(d.Generics)
	em.printf("struct %s {\n", d.Name)
	for i := range d.Fields {
		field := &d.Fields[i]
		em.printf("    %s %s", em.mapFieldType(field.TypeName, d.Generics), field.Name)
		if field.Default != nil {
			em.write(" = ")
			em.emitExpr(field.Default)
		}
		em.write(";\n")
	}
	em.write("};\n\n")
}

// mapFieldType maps a struct field type, leaving bare generic parameters
// untouched.
func (em *Emitter) mapFieldType(typeName string, generics []string) string {
	for _, g := range generics {
		if typeName == g {
			return typeName
		}
	}
	return MapType(typeName)
}

// emitEnum lowers one enum. Unit-only enums emit as scalar enum classes
// with optional explicit discriminants. Enums with data variants emit as
// a tagged union: one struct per data variant, a scalar tag enum, an
// outer struct carrying tag plus a variant payload, and a named
// constructor per variant.
func (em *Emitter) emitEnum(d *parser.EnumDecl) {
	if !d.HasData() {
		em.printf("enum class %s {\n", d.Name)
		for i := range d.Variants {
			variant := &d.Variants[i]
			em.write("    " + variant.Name)
			if variant.HasDiscriminant {
				em.write(" = " + strconv.FormatInt(variant.Discriminant, 10))
			}
			if i+1 < len(d.Variants) {
				em.write(",")
			}
			em.write("\n")
		}
		em.write("};\n\n")
		return
	}

	// One payload struct per data variant
	for i := range d.Variants {
		variant := &d.Variants[i]
		switch {
		case len(variant.TupleTypes) > 0:
			em.printf("struct %s_%s {\n", d.Name, variant.Name)
			for j, typeName := range variant.TupleTypes {
				em.printf("    %s _%d;\n", MapType(typeName), j)
			}
			em.write("};\n\n")
		case len(variant.Fields) > 0:
			em.printf("struct %s_%s {\n", d.Name, variant.Name)
			for _, field := range variant.Fields {
				em.printf("    %s %s;\n", MapType(field.TypeName), field.Name)
			}
			em.write("};\n\n")
		}
	}

	// Scalar tag enum
	em.printf("enum class %sTag {\n", d.Name)
	for i := range d.Variants {
		em.write("    " + d.Variants[i].Name)
		if i+1 < len(d.Variants) {
			em.write(",")
		}
		em.write("\n")
	}
	em.write("};\n\n")

	// Outer struct: tag + payload variant + one constructor per variant
	em.printf("struct %s {\n", d.Name)
	em.printf("    %sTag tag;\n", d.Name)
	em.write("    std::variant<std::monostate")
	for i := range d.Variants {
		if !d.Variants[i].IsUnit() {
			em.printf(", %s_%s", d.Name, d.Variants[i].Name)
		}
	}
	em.write("> data;\n\n")

	for i := range d.Variants {
		variant := &d.Variants[i]
		em.printf("    static %s %s(", d.Name, variant.Name)
		switch {
		case len(variant.TupleTypes) > 0:
			for j, typeName := range variant.TupleTypes {
				if j > 0 {
					em.write(", ")
				}
				em.printf("%s v%d", MapType(typeName), j)
			}
			em.write(") {\n")
			em.printf("        return %s{%sTag::%s, %s_%s{", d.Name, d.Name, variant.Name, d.Name, variant.Name)
			for j := range variant.TupleTypes {
				if j > 0 {
					em.write(", ")
				}
				em.printf("v%d", j)
			}
			em.write("}};\n")
		case len(variant.Fields) > 0:
			for j, field := range variant.Fields {
				if j > 0 {
					em.write(", ")
				}
				em.printf("%s %s", MapType(field.TypeName), field.Name)
			}
			em.write(") {\n")
			em.printf("        return %s{%sTag::%s, %s_%s{", d.Name, d.Name, variant.Name, d.Name, variant.Name)
			for j, field := range variant.Fields {
				if j > 0 {
					em.write(", ")
				}
				em.write(field.Name)
			}
			em.write("}};\n")
		default:
			em.write(") {\n")
			em.printf("        return %s{%sTag::%s, std::monostate{}};\n", d.Name, d.Name, variant.Name)
		}
		em.write("    }\n")
	}
	em.write("};\n\n")
}

// emitTraitInterface emits a trait as an abstract class with one virtual
// per method; methods without a default body are pure.
func (em *Emitter) emitTraitInterface(trait *parser.TraitDecl) {
	em.printf("class I%s {\n", trait.Name)
	em.write("public:\n")
	em.printf("    virtual ~I%s() = default;\n", trait.Name)
	for _, method := range trait.Methods {
		em.write("    virtual ")
		em.write(MapType(method.ReturnType))
		em.write(" " + method.Name + "(")
		for i, param := range method.Params {
			if i > 0 {
				em.write(", ")
			}
			em.printf("%s %s", MapType(param.TypeName), param.Name)
		}
		em.write(")")
		if method.Body == nil {
			em.write(" = 0")
		}
		em.write(";\n")
	}
	em.write("};\n\n")
}

// emitTraitImplWrapper emits the wrapper class for `impl Trait for Type`:
// it holds a reference to the concrete value and delegates each method to
// the Type_method free function, plus a factory helper producing an
// owned handle.
func (em *Emitter) emitTraitImplWrapper(impl *parser.ImplDecl) {
	wrapper := impl.TypeName + "_" + impl.TraitName + "_Impl"
	em.printf("class %s : public I%s {\n", wrapper, impl.TraitName)
	em.printf("    %s& inner_;\n", impl.TypeName)
	em.write("public:\n")
	em.printf("    explicit %s(%s& obj) : inner_(obj) {}\n", wrapper, impl.TypeName)
	for _, method := range impl.Methods {
		em.write("    ")
		em.write(MapType(method.ReturnType))
		em.write(" " + method.Name + "(")
		for i, param := range method.Params {
			if i > 0 {
				em.write(", ")
			}
			em.printf("%s %s", MapType(param.TypeName), param.Name)
		}
		em.write(") override {\n")
		em.write("        ")
		if method.ReturnType != "" && method.ReturnType != "void" {
			em.write("return ")
		}
		em.printf("%s_%s(inner_", impl.TypeName, method.Name)
		for _, param := range method.Params {
			em.write(", " + param.Name)
		}
		em.write(");\n")
		em.write("    }\n")
	}
	em.write("};\n\n")

	em.printf("std::unique_ptr<I%s> make_%s(%s& obj) {\n", impl.TraitName, impl.TraitName, impl.TypeName)
	em.printf("    return std::make_unique<%s>(obj);\n", wrapper)
	em.write("}\n\n")
}

// emitFunctionSignature emits the signature shared by the forward
// declaration and the definition. Methods emit in their mangled
// free-function form with the receiver as the leading parameter.
func (em *Emitter) emitFunctionSignature(fn *parser.FunctionDecl, withDefaults bool) {
	em.emitGenericsHeader(fn.Generics)

	returnType := MapType(fn.ReturnType)
	if fn.Async {
		returnType = "std::future<" + returnType + ">"
	}
	em.write(returnType + " ")

	if fn.Receiver != "" {
		em.write(fn.Receiver + "_" + fn.Name)
	} else {
		em.write(fn.Name)
	}
	em.write("(")

	first := true
	if fn.Receiver != "" && !fn.Static {
		em.printf("%s& self", fn.Receiver)
		first = false
	}
	for _, param := range fn.Params {
		if !first {
			em.write(", ")
		}
		first = false
		em.printf("%s %s", em.mapFieldType(param.TypeName, fn.Generics), param.Name)
		if withDefaults && param.Default != nil {
			em.write(" = ")
			em.emitExpr(param.Default)
		}
	}
	em.write(")")
}

// emitFunction emits one full definition. An async body wraps in a
// std::async task; a main without a trailing return gets an implicit
// `return 0;`. Extern functions emit no definition.
func (em *Emitter) emitFunction(fn *parser.FunctionDecl) {
	if fn.Extern || fn.Body == nil {
		return
	}
	em.emitFunctionSignature(fn, true)
	em.write(" {\n")

	if fn.Async {
		em.write("    return std::async(std::launch::async, [&]() {\n")
		for _, stmt := range fn.Body.Statements {
			em.emitStmt(stmt, 2)
		}
		em.write("    });\n")
	} else {
		for _, stmt := range fn.Body.Statements {
			em.emitStmt(stmt, 1)
		}
		if fn.Name == "main" && fn.Receiver == "" {
			needsReturn := true
			if n := len(fn.Body.Statements); n > 0 {
				if _, ok := fn.Body.Statements[n-1].(*parser.ReturnStmt); ok {
					needsReturn = false
				}
			}
			if needsReturn {
				em.write("    return 0;\n")
			}
		}
	}
	em.write("}\n\n")
}

// emitGlobal emits one top-level constant or global variable.
func (em *Emitter) emitGlobal(d *parser.GlobalDecl) {
	if !d.Mutable {
		em.write("const ")
	}
	em.printf("%s %s", MapType(d.TypeName), d.Name)
	if d.Value != nil {
		em.write(" = ")
		em.emitExpr(d.Value)
	}
	em.write(";\n")
}

// emitTestRunner emits the generated main for `mana test`: it calls every
// #[test] function in declaration order and reports pass counts.
func (em *Emitter) emitTestRunner(mod *parser.Module) {
	var tests []*parser.FunctionDecl
	for _, decl := range mod.Decls {
		if fn, ok := decl.(*parser.FunctionDecl); ok && fn.Test {
			tests = append(tests, fn)
		}
	}

	em.write("int main() {\n")
	em.printf("    mana::println(std::string(\"running %d test(s)\"));\n", len(tests))
	for _, fn := range tests {
		em.printf("    mana::println(std::string(\"test %s ...\"));\n", fn.Name)
		em.printf("    %s();\n", fn.Name)
	}
	em.write("    mana::println(std::string(\"all tests passed\"));\n")
	em.write("    return 0;\n")
	em.write("}\n")
}
