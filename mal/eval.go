package mal

// EvalFunc is the signature of Eval itself. The eval built-in is handed one
// of these at namespace-construction time rather than reaching for a
// package-level variable (spec.md §9 "Global state", option (a)); the
// recursive built-ins (apply, map, swap!) go through Apply, which calls
// Eval directly.
type EvalFunc func(ast Value, env *Env) (Value, error)

// specialForms is the fixed dispatch set of spec.md §4.4.
var specialForms = map[Symbol]bool{
	"def!":  true,
	"let*":  true,
	"fn*":   true,
	"do":    true,
	"if":    true,
	"quote": true,
}

// verdict is what a special form hands back to the trampoline: either a
// final value (Return) or replacement state for the next iteration
// (TailCall). Grounded on original_source/rust/src/bin/step6_file.rs's
// ApplyOkResult::{Return, TailCall} enum, which is the origin of this
// design in spec.md §4.4.
type verdict struct {
	isReturn bool
	value    Value
	ast      Value
	env      *Env
}

func returnVerdict(v Value) verdict        { return verdict{isReturn: true, value: v} }
func tailCall(ast Value, env *Env) verdict { return verdict{ast: ast, env: env} }

// Eval is the evaluator's single entry point. It runs an iterative
// trampoline rather than recursing into itself for do, let*, if, or
// Closure application, so that tail calls run in constant host stack
// space (spec.md §4.4, §9).
func Eval(ast Value, env *Env) (Value, error) {
	curAst, curEnv := ast, env

	for {
		list, isList := curAst.(*List)
		if !isList {
			return evalAst(curAst, curEnv)
		}
		if len(list.Items) == 0 {
			return curAst, nil
		}

		if sym, ok := list.Items[0].(Symbol); ok && specialForms[sym] {
			v, err := evalSpecialForm(sym, list.Items[1:], curEnv)
			if err != nil {
				return nil, err
			}
			if v.isReturn {
				return v.value, nil
			}
			curAst, curEnv = v.ast, v.env
			continue
		}

		evaluated, err := evalAst(list, curEnv)
		if err != nil {
			return nil, err
		}
		items := evaluated.(*List).Items
		head, args := items[0], items[1:]

		switch fn := head.(type) {
		case *Func:
			return fn.Fn(curEnv, args)
		case *Closure:
			if fn.Macro {
				return nil, evalErrorf("%s is not a function", PrStr(head, true))
			}
			newEnv, err := WithBinds(fn.Env, fn.Params.Items, args)
			if err != nil {
				return nil, err
			}
			curAst, curEnv = fn.Body, newEnv
			continue
		default:
			return nil, evalErrorf("%s is not callable", PrStr(head, true))
		}
	}
}

// evalAst is the structural walker for non-application cases (spec.md
// §4.4): symbol lookup, elementwise evaluation of List/Vector/Map, and
// the identity case for every self-evaluating Value.
func evalAst(v Value, env *Env) (Value, error) {
	switch v := v.(type) {
	case Symbol:
		return env.Get(string(v))
	case *List:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			ev, err := Eval(item, env)
			if err != nil {
				return nil, err
			}
			items[i] = ev
		}
		return &List{Items: items}, nil
	case *Vector:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			ev, err := Eval(item, env)
			if err != nil {
				return nil, err
			}
			items[i] = ev
		}
		return &Vector{Items: items}, nil
	case *Map:
		clone := v.Clone()
		for _, k := range clone.Keys {
			ev, err := Eval(clone.Values[k], env)
			if err != nil {
				return nil, err
			}
			clone.Values[k] = ev
		}
		return clone, nil
	default:
		return v, nil
	}
}

// evalSpecialForm dispatches one of the six fixed special forms.
func evalSpecialForm(sym Symbol, args []Value, env *Env) (verdict, error) {
	switch sym {
	case "def!":
		return evalDef(args, env)
	case "let*":
		return evalLet(args, env)
	case "fn*":
		return evalFn(args, env)
	case "do":
		return evalDo(args, env)
	case "if":
		return evalIf(args, env)
	case "quote":
		return evalQuote(args)
	default:
		panic("mal: unreachable special form " + string(sym))
	}
}

func evalDef(args []Value, env *Env) (verdict, error) {
	if len(args) != 2 {
		return verdict{}, specialFormErrorf("def! requires exactly 2 arguments, got %d", len(args))
	}
	name, ok := args[0].(Symbol)
	if !ok {
		return verdict{}, specialFormErrorf("def!'s first argument must be a symbol")
	}
	value, err := Eval(args[1], env)
	if err != nil {
		return verdict{}, err
	}
	env.Set(string(name), value)
	return returnVerdict(value), nil
}

func evalLet(args []Value, env *Env) (verdict, error) {
	if len(args) != 2 {
		return verdict{}, specialFormErrorf("let* requires exactly 2 arguments, got %d", len(args))
	}
	bindings, ok := Seq(args[0])
	if !ok {
		return verdict{}, specialFormErrorf("let*'s bindings must be a list or vector")
	}
	if len(bindings)%2 != 0 {
		return verdict{}, specialFormErrorf("let*'s bindings must have an even number of forms")
	}
	child := NewEnv(env)
	for i := 0; i < len(bindings); i += 2 {
		name, ok := bindings[i].(Symbol)
		if !ok {
			return verdict{}, specialFormErrorf("let*'s binding names must be symbols")
		}
		value, err := Eval(bindings[i+1], child)
		if err != nil {
			return verdict{}, err
		}
		child.Set(string(name), value)
	}
	return tailCall(args[1], child), nil
}

func evalFn(args []Value, env *Env) (verdict, error) {
	if len(args) != 2 {
		return verdict{}, specialFormErrorf("fn* requires exactly 2 arguments, got %d", len(args))
	}
	params, ok := Seq(args[0])
	if !ok {
		return verdict{}, specialFormErrorf("fn*'s parameter list must be a list or vector")
	}
	for _, p := range params {
		if _, ok := p.(Symbol); !ok {
			return verdict{}, specialFormErrorf("fn*'s parameters must be symbols")
		}
	}
	closure := &Closure{
		Params: NewList(params...),
		Body:   args[1],
		Env:    env,
	}
	return returnVerdict(closure), nil
}

func evalDo(args []Value, env *Env) (verdict, error) {
	if len(args) == 0 {
		return returnVerdict(Nil), nil
	}
	for _, a := range args[:len(args)-1] {
		if _, err := Eval(a, env); err != nil {
			return verdict{}, err
		}
	}
	return tailCall(args[len(args)-1], env), nil
}

func evalIf(args []Value, env *Env) (verdict, error) {
	if len(args) != 2 && len(args) != 3 {
		return verdict{}, specialFormErrorf("if requires 2 or 3 arguments, got %d", len(args))
	}
	test, err := Eval(args[0], env)
	if err != nil {
		return verdict{}, err
	}
	if IsTruthy(test) {
		return tailCall(args[1], env), nil
	}
	if len(args) == 3 {
		return tailCall(args[2], env), nil
	}
	return returnVerdict(Nil), nil
}

func evalQuote(args []Value) (verdict, error) {
	if len(args) != 1 {
		return verdict{}, specialFormErrorf("quote requires exactly 1 argument, got %d", len(args))
	}
	return returnVerdict(args[0]), nil
}

// Apply invokes fn with the already-evaluated args, used by built-ins
// (apply, map, swap!) that must call the evaluator rather than a host
// function pointer directly so Closure arguments work uniformly (spec.md
// §4.5). Unlike the trampoline's own application step, this always
// recurses into Eval — it is reached from inside a built-in, not from a
// tail position in source, so it carries no tail-call obligation.
func Apply(fn Value, args []Value) (Value, error) {
	switch fn := fn.(type) {
	case *Func:
		return fn.Fn(fn.Root, args)
	case *Closure:
		if fn.Macro {
			return nil, evalErrorf("%s is not a function", PrStr(fn, true))
		}
		newEnv, err := WithBinds(fn.Env, fn.Params.Items, args)
		if err != nil {
			return nil, err
		}
		return Eval(fn.Body, newEnv)
	default:
		return nil, evalErrorf("%s is not callable", PrStr(fn, true))
	}
}
