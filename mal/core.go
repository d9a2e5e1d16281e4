package mal

import (
	"fmt"
	"os"
	"strings"
)

// NewRootEnv builds the top-level environment for a session: the built-in
// namespace of spec.md §4.5 plus the two forms (not, load-file) bootstrapped
// by evaluating mal source against the namespace itself, the way
// lisp1_5/elementary.go's Base map seeds a fresh Context. eval is handed in
// rather than referenced as a package global (spec.md §9, option (a)) so
// that the eval built-in can re-enter the evaluator at the root env; apply,
// map, and swap! re-enter it through Apply instead.
func NewRootEnv(eval EvalFunc) (*Env, error) {
	root := NewEnv(nil)
	for name, fn := range builtins(eval, root) {
		root.Set(name, &Func{Name: name, Fn: fn, Root: root})
	}

	bootstrap := []string{
		`(def! not (fn* (a) (if a false true)))`,
		`(def! load-file (fn* (f) (eval (read-string (str "(do " (slurp f) ")")))))`,
	}
	for _, src := range bootstrap {
		form, err := ReadStr(src)
		if err != nil {
			return nil, err
		}
		if _, err := eval(form, root); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func builtins(eval EvalFunc, root *Env) map[string]BuiltinFunc {
	return map[string]BuiltinFunc{
		"+": numBinOp("+", func(a, b Number) Number { return a + b }),
		"-": numBinOp("-", func(a, b Number) Number { return a - b }),
		"*": numBinOp("*", func(a, b Number) Number { return a * b }),
		"/": numBinOp("/", func(a, b Number) Number { return a / b }),

		"<":  numCompare("<", func(a, b Number) bool { return a < b }),
		"<=": numCompare("<=", func(a, b Number) bool { return a <= b }),
		">":  numCompare(">", func(a, b Number) bool { return a > b }),
		">=": numCompare(">=", func(a, b Number) bool { return a >= b }),

		"=": func(env *Env, args []Value) (Value, error) {
			if err := exactly("=", args, 2); err != nil {
				return nil, err
			}
			return Bool(Equal(args[0], args[1])), nil
		},

		"prn": func(env *Env, args []Value) (Value, error) {
			fmt.Println(joinValues(args, true, " "))
			return Nil, nil
		},
		"println": func(env *Env, args []Value) (Value, error) {
			fmt.Println(joinValues(args, false, " "))
			return Nil, nil
		},
		"pr-str": func(env *Env, args []Value) (Value, error) {
			return String(joinValues(args, true, " ")), nil
		},
		"str": func(env *Env, args []Value) (Value, error) {
			return String(joinValues(args, false, "")), nil
		},

		"list": func(env *Env, args []Value) (Value, error) {
			return NewList(args...), nil
		},
		"list?": func(env *Env, args []Value) (Value, error) {
			if err := exactly("list?", args, 1); err != nil {
				return nil, err
			}
			_, ok := args[0].(*List)
			return Bool(ok), nil
		},
		"cons": func(env *Env, args []Value) (Value, error) {
			if err := exactly("cons", args, 2); err != nil {
				return nil, err
			}
			tail, ok := Seq(args[1])
			if !ok {
				return nil, builtinErrorf("cons's second argument must be a list or vector")
			}
			items := make([]Value, 0, len(tail)+1)
			items = append(items, args[0])
			items = append(items, tail...)
			return NewList(items...), nil
		},
		"concat": func(env *Env, args []Value) (Value, error) {
			var items []Value
			for _, a := range args {
				seq, ok := Seq(a)
				if !ok {
					return nil, builtinErrorf("concat's arguments must be lists or vectors")
				}
				items = append(items, seq...)
			}
			return NewList(items...), nil
		},
		"empty?": func(env *Env, args []Value) (Value, error) {
			if err := exactly("empty?", args, 1); err != nil {
				return nil, err
			}
			items, ok := seqOrString(args[0])
			if !ok {
				return nil, builtinErrorf("empty? requires a list, vector, or string")
			}
			return Bool(len(items) == 0), nil
		},
		"count": func(env *Env, args []Value) (Value, error) {
			if err := exactly("count", args, 1); err != nil {
				return nil, err
			}
			if args[0] == Nil {
				return Number(0), nil
			}
			items, ok := seqOrString(args[0])
			if !ok {
				return nil, builtinErrorf("count requires a list, vector, string, or nil")
			}
			return Number(len(items)), nil
		},
		"nth": func(env *Env, args []Value) (Value, error) {
			if err := exactly("nth", args, 2); err != nil {
				return nil, err
			}
			items, ok := Seq(args[0])
			if !ok {
				return nil, builtinErrorf("nth's first argument must be a list or vector")
			}
			n, ok := args[1].(Number)
			if !ok {
				return nil, builtinErrorf("nth's second argument must be a number")
			}
			i := int(n)
			if i < 0 || i >= len(items) {
				return nil, builtinErrorf("nth: index %d out of range", i)
			}
			return items[i], nil
		},
		"first": func(env *Env, args []Value) (Value, error) {
			if err := exactly("first", args, 1); err != nil {
				return nil, err
			}
			if args[0] == Nil {
				return Nil, nil
			}
			items, ok := Seq(args[0])
			if !ok {
				return nil, builtinErrorf("first requires a list, vector, or nil")
			}
			if len(items) == 0 {
				return Nil, nil
			}
			return items[0], nil
		},
		"rest": func(env *Env, args []Value) (Value, error) {
			if err := exactly("rest", args, 1); err != nil {
				return nil, err
			}
			if args[0] == Nil {
				return NewList(), nil
			}
			items, ok := Seq(args[0])
			if !ok {
				return nil, builtinErrorf("rest requires a list, vector, or nil")
			}
			if len(items) <= 1 {
				return NewList(), nil
			}
			return NewList(items[1:]...), nil
		},

		"read-string": func(env *Env, args []Value) (Value, error) {
			if err := exactly("read-string", args, 1); err != nil {
				return nil, err
			}
			s, ok := args[0].(String)
			if !ok {
				return nil, builtinErrorf("read-string requires a string")
			}
			return ReadStr(string(s))
		},
		"slurp": func(env *Env, args []Value) (Value, error) {
			if err := exactly("slurp", args, 1); err != nil {
				return nil, err
			}
			path, ok := args[0].(String)
			if !ok {
				return nil, builtinErrorf("slurp requires a string path")
			}
			data, err := os.ReadFile(string(path))
			if err != nil {
				return nil, builtinErrorf("slurp: %v", err)
			}
			return String(data), nil
		},

		"eval": func(env *Env, args []Value) (Value, error) {
			if err := exactly("eval", args, 1); err != nil {
				return nil, err
			}
			return eval(args[0], root)
		},

		"atom": func(env *Env, args []Value) (Value, error) {
			if err := exactly("atom", args, 1); err != nil {
				return nil, err
			}
			return NewAtom(args[0]), nil
		},
		"atom?": func(env *Env, args []Value) (Value, error) {
			if err := exactly("atom?", args, 1); err != nil {
				return nil, err
			}
			_, ok := args[0].(*Atom)
			return Bool(ok), nil
		},
		"deref": func(env *Env, args []Value) (Value, error) {
			if err := exactly("deref", args, 1); err != nil {
				return nil, err
			}
			a, ok := args[0].(*Atom)
			if !ok {
				return nil, builtinErrorf("deref requires an atom")
			}
			return a.Value, nil
		},
		"reset!": func(env *Env, args []Value) (Value, error) {
			if err := exactly("reset!", args, 2); err != nil {
				return nil, err
			}
			a, ok := args[0].(*Atom)
			if !ok {
				return nil, builtinErrorf("reset! requires an atom")
			}
			a.Value = args[1]
			return a.Value, nil
		},
		"swap!": func(env *Env, args []Value) (Value, error) {
			if err := atLeast("swap!", args, 2); err != nil {
				return nil, err
			}
			a, ok := args[0].(*Atom)
			if !ok {
				return nil, builtinErrorf("swap! requires an atom")
			}
			if !IsCallable(args[1]) {
				return nil, builtinErrorf("swap!'s second argument must be callable")
			}
			callArgs := make([]Value, 0, len(args)-1)
			callArgs = append(callArgs, a.Value)
			callArgs = append(callArgs, args[2:]...)
			result, err := Apply(args[1], callArgs)
			if err != nil {
				return nil, err
			}
			a.Value = result
			return result, nil
		},

		"throw": func(env *Env, args []Value) (Value, error) {
			if err := exactly("throw", args, 1); err != nil {
				return nil, err
			}
			return nil, ExceptionErr{Val: args[0]}
		},

		"nil?": predicate("nil?", func(v Value) bool { return v == Nil }),
		"true?": predicate("true?", func(v Value) bool {
			_, ok := v.(TrueValue)
			return ok
		}),
		"false?": predicate("false?", func(v Value) bool {
			_, ok := v.(FalseValue)
			return ok
		}),
		"symbol?": predicate("symbol?", func(v Value) bool {
			_, ok := v.(Symbol)
			return ok
		}),
		"keyword?": predicate("keyword?", func(v Value) bool {
			_, ok := v.(Keyword)
			return ok
		}),

		"symbol": func(env *Env, args []Value) (Value, error) {
			if err := exactly("symbol", args, 1); err != nil {
				return nil, err
			}
			s, ok := args[0].(String)
			if !ok {
				return nil, builtinErrorf("symbol requires a string")
			}
			return Symbol(s), nil
		},
		"keyword": func(env *Env, args []Value) (Value, error) {
			if err := exactly("keyword", args, 1); err != nil {
				return nil, err
			}
			s, ok := args[0].(String)
			if !ok {
				return nil, builtinErrorf("keyword requires a string")
			}
			return Keyword(s), nil
		},

		"apply": func(env *Env, args []Value) (Value, error) {
			if err := atLeast("apply", args, 2); err != nil {
				return nil, err
			}
			if !IsCallable(args[0]) {
				return nil, builtinErrorf("apply's first argument must be callable")
			}
			tail, ok := Seq(args[len(args)-1])
			if !ok {
				return nil, builtinErrorf("apply's last argument must be a list or vector")
			}
			callArgs := make([]Value, 0, len(args)-2+len(tail))
			callArgs = append(callArgs, args[1:len(args)-1]...)
			callArgs = append(callArgs, tail...)
			return Apply(args[0], callArgs)
		},
		"map": func(env *Env, args []Value) (Value, error) {
			if err := exactly("map", args, 2); err != nil {
				return nil, err
			}
			if !IsCallable(args[0]) {
				return nil, builtinErrorf("map's first argument must be callable")
			}
			items, ok := Seq(args[1])
			if !ok {
				return nil, builtinErrorf("map's second argument must be a list or vector")
			}
			results := make([]Value, len(items))
			for i, item := range items {
				v, err := Apply(args[0], []Value{item})
				if err != nil {
					return nil, err
				}
				results[i] = v
			}
			return NewList(results...), nil
		},
	}
}

func exactly(name string, args []Value, n int) error {
	if len(args) != n {
		return builtinErrorf("%s requires exactly %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func atLeast(name string, args []Value, n int) error {
	if len(args) < n {
		return builtinErrorf("%s requires at least %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func predicate(name string, test func(Value) bool) BuiltinFunc {
	return func(env *Env, args []Value) (Value, error) {
		if err := exactly(name, args, 1); err != nil {
			return nil, err
		}
		return Bool(test(args[0])), nil
	}
}

// numBinOp builds a strictly-binary arithmetic built-in: spec.md §4.5
// specifies +, -, *, / as binary, both Numbers, matching
// original_source/rust/src/core.rs's hard `args.len() != 2` check on each
// arithmetic function rather than folding over a variadic argument list.
func numBinOp(name string, op func(a, b Number) Number) BuiltinFunc {
	return func(env *Env, args []Value) (Value, error) {
		if err := exactly(name, args, 2); err != nil {
			return nil, err
		}
		a, ok1 := args[0].(Number)
		b, ok2 := args[1].(Number)
		if !ok1 || !ok2 {
			return nil, builtinErrorf("%s requires numbers", name)
		}
		return op(a, b), nil
	}
}

func numCompare(name string, cmp func(a, b Number) bool) BuiltinFunc {
	return func(env *Env, args []Value) (Value, error) {
		if err := exactly(name, args, 2); err != nil {
			return nil, err
		}
		a, ok1 := args[0].(Number)
		b, ok2 := args[1].(Number)
		if !ok1 || !ok2 {
			return nil, builtinErrorf("%s requires numbers", name)
		}
		return Bool(cmp(a, b)), nil
	}
}

func joinValues(args []Value, readable bool, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = PrStr(a, readable)
	}
	return strings.Join(parts, sep)
}

func seqOrString(v Value) ([]Value, bool) {
	if items, ok := Seq(v); ok {
		return items, true
	}
	if s, ok := v.(String); ok {
		items := make([]Value, 0, len(s))
		for _, r := range string(s) {
			items = append(items, String(string(r)))
		}
		return items, true
	}
	return nil, false
}
