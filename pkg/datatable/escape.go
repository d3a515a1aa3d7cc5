package datatable

import (
	"strings"
)

// Same set the widget's templates escape, so cells render identically
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// EscapeExpression makes a value safe to embed as text in a cell
func EscapeExpression(s string) string {

	if !strings.ContainsAny(s, "&<>\"'`=") {
		return s
	}

	return escaper.Replace(s)
}
