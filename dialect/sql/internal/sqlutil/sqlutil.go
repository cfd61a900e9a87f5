// Package sqlutil provides small fragment-composition helpers shared by
// the postgres, mysql and sqlite adapters, so each adapter package only
// needs to spell out the syntax that actually differs between dialects.
package sqlutil

import "github.com/viborm/viborm/dialect/sql"

var comma = sql.Raw(", ")

// JoinComma joins fragments with ", ".
func JoinComma(items []sql.Sql) sql.Sql {
	return sql.Join(items, comma)
}

// Func renders name(args...).
func Func(name string, args ...sql.Sql) sql.Sql {
	return sql.Raw(name + "(").Append(JoinComma(args)).Append(sql.Raw(")"))
}

// Infix renders "(lhs op rhs)".
func Infix(lhs sql.Sql, op string, rhs sql.Sql) sql.Sql {
	return sql.Raw("(").Append(lhs).Append(sql.Raw(" " + op + " ")).Append(rhs).Append(sql.Raw(")"))
}

// Prefix renders "op expr".
func Prefix(op string, expr sql.Sql) sql.Sql {
	return sql.Raw(op + " ").Append(expr)
}

// Paren wraps a fragment in parens.
func Paren(s sql.Sql) sql.Sql {
	return s.Wrap()
}

// JoinAndOr folds a list of predicates with "AND"/"OR", degrading to the
// SQL boolean literal named by emptyLiteral when preds is empty.
func JoinAndOr(preds []sql.Sql, op string, emptyLiteral sql.Sql) sql.Sql {
	if len(preds) == 0 {
		return emptyLiteral
	}
	if len(preds) == 1 {
		return preds[0]
	}
	sep := sql.Raw(" " + op + " ")
	return Paren(sql.Join(preds, sep))
}
