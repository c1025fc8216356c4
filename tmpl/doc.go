// Package tmpl implements the parametric text mini-language used to bind
// sketch text to document parameters.
//
// A template is literal text interleaved with substitution tokens of the form
//
//	{var[.member][slice][:format]}
//
// where var is either a document parameter name or the system namespace "_",
// member selects a facet of the variable (value, comment, unit, version,
// date, ...), slice is a Python-style substring range, and format is a
// format-spec string controlling numeric, string, or date rendering.
//
// Tokens are delimited by single un-nested brace pairs. There is no escape
// for literal braces inside a token: the first '}' always closes it.
//
// Rendering is total: a malformed or unresolvable token never aborts the
// template. Each failure is replaced by an inline bracketed diagnostic
// (for example "<Unknown parameter: d7>") and rendering continues with the
// next token.
package tmpl
