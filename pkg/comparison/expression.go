package comparison

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// impactHigh tags every measure-expression change; any rewrite of a measure
// formula can change reported numbers no matter how small the edit.
const impactHigh = "high"

// expressionPunct lists the characters that absorb adjacent spaces during
// normalization.
var expressionPunct = []string{"=", "+", "-", "*", "/", "(", ")", ",", "[", "]"}

// normalizeExpression canonicalizes an expression purely for change
// detection: whitespace runs collapse to a single space, then spaces
// touching any operator or bracket character are stripped. Two expressions
// count as equal iff their normalized forms are byte-identical.
func normalizeExpression(expr string) string {
	norm := strings.Join(strings.Fields(expr), " ")
	for _, p := range expressionPunct {
		norm = strings.ReplaceAll(norm, " "+p, p)
		norm = strings.ReplaceAll(norm, p+" ", p)
	}
	return norm
}

// diffExpression compares two expression-bearing fields, treating absence as
// the empty string. It returns nil when both sides are empty or when the
// difference is purely cosmetic formatting. The attached unified diff is
// informational; callers must not use it to decide whether a change exists.
func diffExpression(from, to string) *ExpressionChange {
	if from == "" && to == "" {
		return nil
	}
	if normalizeExpression(from) == normalizeExpression(to) {
		return nil
	}
	return &ExpressionChange{
		From: from,
		To:   to,
		Diff: unifiedDiffLines(from, to),
	}
}

// unifiedDiffLines renders a line-based unified diff of the raw expression
// texts, labeled original/modified, one element per line with no trailing
// newlines.
func unifiedDiffLines(from, to string) []string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: "original",
		ToFile:   "modified",
		Context:  3,
	})
	if err != nil || text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
