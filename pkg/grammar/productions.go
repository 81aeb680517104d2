package grammar

import "go/ast"

func init() {
	for _, sample := range []ast.Node{
		// Comments
		&ast.Comment{},
		&ast.CommentGroup{},

		// Fields
		&ast.Field{},
		&ast.FieldList{},

		// Expressions and types
		&ast.BadExpr{},
		&ast.Ident{},
		&ast.Ellipsis{},
		&ast.BasicLit{},
		&ast.FuncLit{},
		&ast.CompositeLit{},
		&ast.ParenExpr{},
		&ast.SelectorExpr{},
		&ast.IndexExpr{},
		&ast.IndexListExpr{},
		&ast.SliceExpr{},
		&ast.TypeAssertExpr{},
		&ast.CallExpr{},
		&ast.StarExpr{},
		&ast.UnaryExpr{},
		&ast.BinaryExpr{},
		&ast.KeyValueExpr{},
		&ast.ArrayType{},
		&ast.StructType{},
		&ast.FuncType{},
		&ast.InterfaceType{},
		&ast.MapType{},
		&ast.ChanType{},

		// Statements
		&ast.BadStmt{},
		&ast.DeclStmt{},
		&ast.EmptyStmt{},
		&ast.LabeledStmt{},
		&ast.ExprStmt{},
		&ast.SendStmt{},
		&ast.IncDecStmt{},
		&ast.AssignStmt{},
		&ast.GoStmt{},
		&ast.DeferStmt{},
		&ast.ReturnStmt{},
		&ast.BranchStmt{},
		&ast.BlockStmt{},
		&ast.IfStmt{},
		&ast.CaseClause{},
		&ast.SwitchStmt{},
		&ast.TypeSwitchStmt{},
		&ast.CommClause{},
		&ast.SelectStmt{},
		&ast.ForStmt{},
		&ast.RangeStmt{},

		// Specifications
		&ast.ImportSpec{},
		&ast.ValueSpec{},
		&ast.TypeSpec{},

		// Declarations
		&ast.BadDecl{},
		&ast.GenDecl{},
		&ast.FuncDecl{},

		// Files
		&ast.File{},
	} {
		register(sample)
	}
}
