/*
File    : mana/driver/doc.go
*/
package driver

import (
	"fmt"
	"strings"

	"github.com/mana-lang/mana/parser"
)

// GenerateDocs renders the doc comments of a module's public declarations
// and its #[test] functions as markdown (the --doc flag). Declarations without doc comments are
// listed by signature only.
func GenerateDocs(mod *parser.Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Module %s\n\n", mod.Name)

	writeDoc := func(doc []string) {
		for _, line := range doc {
			sb.WriteString(line + "\n")
		}
		if len(doc) > 0 {
			sb.WriteString("\n")
		}
	}

	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *parser.FunctionDecl:
			if !d.Pub && !d.Test {
				continue
			}
			fmt.Fprintf(&sb, "## fn %s\n\n", functionSignature(d))
			writeDoc(d.Doc)
		case *parser.StructDecl:
			if !d.Pub {
				continue
			}
			fmt.Fprintf(&sb, "## struct %s\n\n", d.Name)
			writeDoc(d.Doc)
			for _, field := range d.Fields {
				fmt.Fprintf(&sb, "- `%s: %s`\n", field.Name, field.TypeName)
			}
			sb.WriteString("\n")
		case *parser.EnumDecl:
			if !d.Pub {
				continue
			}
			fmt.Fprintf(&sb, "## enum %s\n\n", d.Name)
			writeDoc(d.Doc)
			for i := range d.Variants {
				fmt.Fprintf(&sb, "- `%s`\n", d.Variants[i].Name)
			}
			sb.WriteString("\n")
		case *parser.TraitDecl:
			if !d.Pub {
				continue
			}
			fmt.Fprintf(&sb, "## trait %s\n\n", d.Name)
			writeDoc(d.Doc)
			for _, method := range d.Methods {
				fmt.Fprintf(&sb, "- `fn %s`\n", functionSignature(method))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// functionSignature renders a compact source-like signature.
func functionSignature(fn *parser.FunctionDecl) string {
	var sb strings.Builder
	sb.WriteString(fn.Name)
	if len(fn.Generics) > 0 {
		sb.WriteString("<" + strings.Join(fn.Generics, ", ") + ">")
	}
	sb.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(param.Name + ": " + param.TypeName)
	}
	sb.WriteString(")")
	if fn.ReturnType != "" {
		sb.WriteString(" -> " + fn.ReturnType)
	}
	return sb.String()
}
