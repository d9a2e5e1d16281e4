package mal

import "testing"

func TestEnvSetGet(t *testing.T) {
	e := NewEnv(nil)
	e.Set("a", Number(1))
	v, err := e.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(v, Number(1)) {
		t.Errorf("got %v, want 1", v)
	}
}

func TestEnvParentLookup(t *testing.T) {
	outer := NewEnv(nil)
	outer.Set("a", Number(1))
	inner := NewEnv(outer)
	v, err := inner.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(v, Number(1)) {
		t.Errorf("got %v, want 1", v)
	}
}

func TestEnvShadowing(t *testing.T) {
	outer := NewEnv(nil)
	outer.Set("a", Number(1))
	inner := NewEnv(outer)
	inner.Set("a", Number(2))

	innerVal, _ := inner.Get("a")
	outerVal, _ := outer.Get("a")
	if !Equal(innerVal, Number(2)) {
		t.Errorf("inner a = %v, want 2", innerVal)
	}
	if !Equal(outerVal, Number(1)) {
		t.Errorf("outer a = %v, want 1", outerVal)
	}
}

func TestEnvUndefined(t *testing.T) {
	e := NewEnv(nil)
	_, err := e.Get("missing")
	uerr, ok := err.(UndefinedSymbolErr)
	if !ok {
		t.Fatalf("expected UndefinedSymbolErr, got %v", err)
	}
	if uerr.Error() != "'missing' not found" {
		t.Errorf("got %q", uerr.Error())
	}
}

func TestWithBindsPositional(t *testing.T) {
	env, err := WithBinds(nil, []Value{Symbol("a"), Symbol("b")}, []Value{Number(1), Number(2)})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := env.Get("a")
	b, _ := env.Get("b")
	if !Equal(a, Number(1)) || !Equal(b, Number(2)) {
		t.Errorf("got a=%v b=%v", a, b)
	}
}

func TestWithBindsVariadic(t *testing.T) {
	env, err := WithBinds(nil,
		[]Value{Symbol("a"), Symbol("&"), Symbol("rest")},
		[]Value{Number(1), Number(2), Number(3)})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := env.Get("a")
	if !Equal(a, Number(1)) {
		t.Errorf("a = %v, want 1", a)
	}
	rest, _ := env.Get("rest")
	if !Equal(rest, NewList(Number(2), Number(3))) {
		t.Errorf("rest = %v, want (2 3)", rest)
	}
}

func TestWithBindsVariadicEmpty(t *testing.T) {
	env, err := WithBinds(nil,
		[]Value{Symbol("a"), Symbol("&"), Symbol("rest")},
		[]Value{Number(1)})
	if err != nil {
		t.Fatal(err)
	}
	rest, _ := env.Get("rest")
	if !Equal(rest, NewList()) {
		t.Errorf("rest = %v, want ()", rest)
	}
}

func TestWithBindsExtraNameBindsNil(t *testing.T) {
	env, err := WithBinds(nil, []Value{Symbol("a")}, []Value{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := env.Get("a")
	if a != Nil {
		t.Errorf("a = %v, want nil", a)
	}
}

func TestWithBindsAmpersandWithoutName(t *testing.T) {
	_, err := WithBinds(nil, []Value{Symbol("&")}, []Value{})
	if err == nil {
		t.Errorf("expected error for trailing &")
	}
}
