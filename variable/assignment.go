package variable

import "github.com/solgraph/solgraph/ast"

// Assignment is the LHS/RHS variable sets and operator kind recovered from
// an Assignment node, a unary ++/--/delete, or a declaration.
type Assignment struct {
	LHS []Variable
	RHS []Variable
	Op  Operator
}

// ParseAssignment accepts on Assignment nodes and on any unary expression
// whose operator is ++, --, or delete, ignoring FunctionCall,
// ModifierInvocation, and declaration nodes (those are handled by
// ParseDeclaration instead). For each accepted node: LHS is parsed from
// the first child, RHS from the second child if present.
func ParseAssignment(w ast.Walker, dict *ast.Dictionary) (Assignment, bool) {
	if !isAssignmentNode(w) {
		return Assignment{}, false
	}
	children := w.DirectChilds(nil)
	if len(children) == 0 {
		return Assignment{}, false
	}
	var asgn Assignment
	asgn.LHS = Parse(children[0], dict, map[uint32]bool{})
	if len(children) > 1 {
		asgn.RHS = Parse(children[1], dict, map[uint32]bool{})
	}
	asgn.Op = ClassifyOperator(operatorOf(w))
	return asgn, true
}

func isAssignmentNode(w ast.Walker) bool {
	if w.Node.Name == "Assignment" {
		return true
	}
	if w.Node.Name == "UnaryOperation" {
		switch w.Node.AttrString("operator") {
		case "++", "--", "delete":
			return true
		}
	}
	return false
}

func operatorOf(w ast.Walker) string {
	if w.Node.Name == "UnaryOperation" {
		return w.Node.AttrString("operator")
	}
	return w.Node.AttrString("operator")
}

// FindAssignments walks w's whole subtree and returns the Assignment
// recovered from every Assignment node and every ++/--/delete unary
// expression found, skipping into nested FunctionCall/ModifierInvocation/
// VariableDeclaration(Statement)/MemberAccess/Identifier/IndexAccess
// subtrees (those are handled separately by FindDeclarations and by the
// DoubleCircle/Mdiamond parameter jump in the data flow pass).
func FindAssignments(w ast.Walker, dict *ast.Dictionary) []Assignment {
	ignore := func(cur ast.Walker, _ []ast.Walker) bool {
		switch cur.Node.Name {
		case "FunctionCall", "ModifierInvocation", "VariableDeclaration",
			"VariableDeclarationStatement", "MemberAccess", "Identifier", "IndexAccess":
			return true
		default:
			return false
		}
	}
	accept := func(cur ast.Walker, _ []ast.Walker) bool {
		return isAssignmentNode(cur)
	}
	var out []Assignment
	for _, match := range w.Walk(false, ignore, accept) {
		if a, ok := ParseAssignment(match, dict); ok {
			out = append(out, a)
		}
	}
	return out
}

// FindDeclarations walks w's whole subtree and returns the Assignment
// recovered from every bare state/parameter VariableDeclaration and every
// local VariableDeclarationStatement, skipping into nested FunctionCall/
// ModifierInvocation/MemberAccess/Identifier/IndexAccess/Assignment
// subtrees.
func FindDeclarations(w ast.Walker, dict *ast.Dictionary) []Assignment {
	type match struct {
		w         ast.Walker
		parent    ast.Walker
		hasParent bool
	}
	var matches []match

	ignore := func(cur ast.Walker, _ []ast.Walker) bool {
		switch cur.Node.Name {
		case "FunctionCall", "ModifierInvocation", "MemberAccess", "Identifier", "IndexAccess", "Assignment":
			return true
		default:
			return false
		}
	}
	accept := func(cur ast.Walker, path []ast.Walker) bool {
		switch cur.Node.Name {
		case "VariableDeclaration":
			if len(path) >= 2 {
				parent := path[len(path)-2]
				if parent.Node.Name == "VariableDeclarationStatement" {
					return false
				}
				matches = append(matches, match{w: cur, parent: parent, hasParent: true})
				return true
			}
			matches = append(matches, match{w: cur})
			return true
		case "VariableDeclarationStatement":
			matches = append(matches, match{w: cur})
			return true
		default:
			return false
		}
	}
	w.Walk(false, ignore, accept)

	var out []Assignment
	for _, m := range matches {
		if a, ok := ParseDeclaration(m.w, m.parent, m.hasParent, dict); ok {
			out = append(out, a)
		}
	}
	return out
}

// ParseDeclaration accepts VariableDeclaration nodes whose parent is not a
// VariableDeclarationStatement (state/parameter declarations), and
// VariableDeclarationStatement nodes directly (local declarations),
// producing the same Assignment shape as ParseAssignment: the declared
// name(s) are the LHS, and an attached initializer expression, if any, is
// the RHS.
func ParseDeclaration(w ast.Walker, parent ast.Walker, hasParent bool, dict *ast.Dictionary) (Assignment, bool) {
	switch w.Node.Name {
	case "VariableDeclaration":
		if hasParent && parent.Node.Name == "VariableDeclarationStatement" {
			return Assignment{}, false
		}
		return Assignment{
			LHS: []Variable{{Members: []Member{RefMember(w.Node.ID)}, Source: w.Node.Source}},
			Op:  OpEqual,
		}, true
	case "VariableDeclarationStatement":
		children := w.DirectChilds(nil)
		var asgn Assignment
		for _, child := range children {
			if child.Node.Name == "VariableDeclaration" {
				asgn.LHS = append(asgn.LHS, Variable{Members: []Member{RefMember(child.Node.ID)}, Source: child.Node.Source})
			} else {
				asgn.RHS = append(asgn.RHS, Parse(child, dict, map[uint32]bool{})...)
			}
		}
		asgn.Op = OpEqual
		return asgn, true
	default:
		return Assignment{}, false
	}
}
