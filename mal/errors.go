package mal

import "fmt"

// EmptyProgramErr is returned by the reader when the input contains no
// token at all (spec.md §4.2, §7). It is user-silent at the REPL.
type EmptyProgramErr struct{}

func (EmptyProgramErr) Error() string { return "empty program" }

// TokenizerErr signals a malformed token, e.g. an unterminated string.
type TokenizerErr struct {
	Message string
}

func (e TokenizerErr) Error() string { return e.Message }

// ParserErr signals unbalanced delimiters, an odd-length map literal,
// trailing tokens after a complete form, or a reader macro with no form
// following it.
type ParserErr struct {
	Message string
}

func (e ParserErr) Error() string { return e.Message }

// UndefinedSymbolErr is an environment lookup failure. Its Error() method
// renders spec.md §7's required user message format.
type UndefinedSymbolErr struct {
	Name string
}

func (e UndefinedSymbolErr) Error() string { return fmt.Sprintf("'%s' not found", e.Name) }

// EvaluationErr covers a non-callable value in head position, a malformed
// variadic binding, or any other failure intrinsic to evaluation rather
// than to a specific special form or built-in.
type EvaluationErr struct {
	Message string
}

func (e EvaluationErr) Error() string { return e.Message }

// SpecialFormErr signals an arity or shape violation of a special form.
type SpecialFormErr struct {
	Message string
}

func (e SpecialFormErr) Error() string { return e.Message }

// RustFunctionErr signals a built-in precondition violation or a slurp I/O
// failure. The name is inherited from the dialect's built-in namespace
// concept — these are the built-ins implemented by the host, not by the
// language itself.
type RustFunctionErr struct {
	Message string
}

func (e RustFunctionErr) Error() string { return e.Message }

// ExceptionErr carries a user-supplied Value produced by (throw v). It is
// kept distinct from the textual error kinds above so a future try*/catch*
// form can intercept it and recover the original Value via Value().
type ExceptionErr struct {
	Val Value
}

func (e ExceptionErr) Error() string { return PrStr(e.Val, true) }

// Value returns the Value carried by a throw.
func (e ExceptionErr) Value() Value { return e.Val }

func evalErrorf(format string, args ...interface{}) error {
	return EvaluationErr{Message: fmt.Sprintf(format, args...)}
}

func specialFormErrorf(format string, args ...interface{}) error {
	return SpecialFormErr{Message: fmt.Sprintf(format, args...)}
}

func builtinErrorf(format string, args ...interface{}) error {
	return RustFunctionErr{Message: fmt.Sprintf(format, args...)}
}

func parserErrorf(format string, args ...interface{}) error {
	return ParserErr{Message: fmt.Sprintf(format, args...)}
}

func tokenizerErrorf(format string, args ...interface{}) error {
	return TokenizerErr{Message: fmt.Sprintf(format, args...)}
}
