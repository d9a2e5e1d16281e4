package mal

import "testing"

func evalStr(t *testing.T, root *Env, src string) Value {
	t.Helper()
	ast, err := ReadStr(src)
	if err != nil {
		t.Fatalf("ReadStr(%q) error: %v", src, err)
	}
	v, err := Eval(ast, root)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return v
}

func newTestRoot(t *testing.T) *Env {
	t.Helper()
	root, err := NewRootEnv(Eval)
	if err != nil {
		t.Fatalf("NewRootEnv error: %v", err)
	}
	return root
}

var evalTests = []struct {
	in   string
	want string
}{
	{"(+ 2 (* 3 4))", "14"},
	{"(let* [a 2 b (+ a 1)] [a b (+ a b)])", "[2 3 5]"},
	{"(do 1 :s2 3 :s4)", ":s4"},
	{"(do)", "nil"},
	{"(if nil :a :b)", ":b"},
	{"(if false :a)", "nil"},
	{"(quote (+ 1 (2 3)))", "(+ 1 (2 3))"},
	{"((fn* (a & rest) rest) 1 2 3)", "(2 3)"},
	{"((fn* (a & rest) rest) 1)", "()"},
}

func TestEvalConcreteScenarios(t *testing.T) {
	for _, test := range evalTests {
		root := newTestRoot(t)
		got := PrStr(evalStr(t, root, test.in), true)
		if got != test.want {
			t.Errorf("eval(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestListVectorEquality(t *testing.T) {
	root := newTestRoot(t)
	got := evalStr(t, root, "(= (list 1 2 3) [1 2 3])")
	if !IsTruthy(got) {
		t.Errorf("(list 1 2 3) should equal [1 2 3], got %v", PrStr(got, true))
	}
}

func TestIdempotentQuote(t *testing.T) {
	root := newTestRoot(t)
	for _, x := range []string{"1", "nil", "true", ":k", `"s"`} {
		got := evalStr(t, root, "(= "+x+" (eval (quote "+x+")))")
		if !IsTruthy(got) {
			t.Errorf("(eval (quote %s)) should equal %s", x, x)
		}
	}
}

func TestTailCallConstancy(t *testing.T) {
	root := newTestRoot(t)
	evalStr(t, root, `(def! count-down (fn* (n) (if (= n 0) :done (count-down (- n 1)))))`)
	got := evalStr(t, root, "(count-down 10000)")
	if PrStr(got, true) != ":done" {
		t.Errorf("count-down 10000 = %v, want :done", PrStr(got, true))
	}
}

func TestClosureCapture(t *testing.T) {
	root := newTestRoot(t)
	evalStr(t, root, `(def! c ((fn* (x) (fn* () x)) 7))`)
	evalStr(t, root, `(def! x 999)`)
	got := evalStr(t, root, "(c)")
	if PrStr(got, true) != "7" {
		t.Errorf("(c) = %v, want 7", PrStr(got, true))
	}
}

func TestAtomSemantics(t *testing.T) {
	root := newTestRoot(t)
	evalStr(t, root, "(def! a (atom 0))")
	evalStr(t, root, "(swap! a (fn* (n) (+ n 1)))")
	evalStr(t, root, "(swap! a (fn* (n) (+ n 1)))")
	got := evalStr(t, root, "(deref a)")
	if PrStr(got, true) != "2" {
		t.Errorf("(deref a) = %v, want 2", PrStr(got, true))
	}
}

func TestEvalUsesRootEnv(t *testing.T) {
	root := newTestRoot(t)
	evalStr(t, root, "(def! a 1)")
	evalStr(t, root, "((fn* [] (def! a 2)))")
	got := evalStr(t, root, "a")
	if PrStr(got, true) != "1" {
		t.Errorf("a = %v, want 1 (local def! must not leak)", PrStr(got, true))
	}

	evalStr(t, root, `((fn* [] (eval (read-string "(def! a 3)"))))`)
	got = evalStr(t, root, "a")
	if PrStr(got, true) != "3" {
		t.Errorf("a = %v, want 3 (eval must reach root env)", PrStr(got, true))
	}
}

func TestSpecialFormArityErrors(t *testing.T) {
	root := newTestRoot(t)
	bad := []string{
		"(def! a)",
		"(let* [a 1])",
		"(let* [a] a)",
		"(fn* (a))",
		"(if)",
		"(if 1 2 3 4)",
		"(quote)",
		"(quote 1 2)",
	}
	for _, src := range bad {
		ast, err := ReadStr(src)
		if err != nil {
			t.Fatalf("ReadStr(%q): %v", src, err)
		}
		if _, err := Eval(ast, root); err == nil {
			t.Errorf("Eval(%q): expected error, got none", src)
		} else if _, ok := err.(SpecialFormErr); !ok {
			t.Errorf("Eval(%q): expected SpecialFormErr, got %T: %v", src, err, err)
		}
	}
}

func TestUndefinedSymbol(t *testing.T) {
	root := newTestRoot(t)
	ast, _ := ReadStr("undefined-name")
	_, err := Eval(ast, root)
	if uerr, ok := err.(UndefinedSymbolErr); !ok {
		t.Errorf("expected UndefinedSymbolErr, got %v", err)
	} else if uerr.Error() != "'undefined-name' not found" {
		t.Errorf("got %q", uerr.Error())
	}
}

func TestNotCallable(t *testing.T) {
	root := newTestRoot(t)
	ast, _ := ReadStr("(1 2 3)")
	if _, err := Eval(ast, root); err == nil {
		t.Errorf("expected error calling a non-callable head")
	}
}

func TestThrowIsException(t *testing.T) {
	root := newTestRoot(t)
	ast, _ := ReadStr(`(throw "boom")`)
	_, err := Eval(ast, root)
	exc, ok := err.(ExceptionErr)
	if !ok {
		t.Fatalf("expected ExceptionErr, got %T: %v", err, err)
	}
	if !Equal(exc.Value(), String("boom")) {
		t.Errorf("exception value = %v, want \"boom\"", exc.Value())
	}
}
