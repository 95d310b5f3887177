package api

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every exported Handler method is an endpoint and carries a swag block.
func TestHandlersAnnotated(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	var handlers int
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ParseComments)
		require.NoError(t, err, name)

		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || !fn.Name.IsExported() || !onHandler(fn) {
				continue
			}
			handlers++
			doc := fn.Doc.Text()
			assert.Contains(t, doc, "@Summary", "%s in %s", fn.Name.Name, name)
			assert.Contains(t, doc, "@Tags", "%s in %s", fn.Name.Name, name)
			assert.Contains(t, doc, "@Router", "%s in %s", fn.Name.Name, name)
		}
	}
	assert.Equal(t, 39, handlers)
}

func onHandler(fn *ast.FuncDecl) bool {
	star, ok := fn.Recv.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	id, ok := star.X.(*ast.Ident)
	return ok && id.Name == "Handler"
}
