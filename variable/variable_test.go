package variable

import "testing"

func TestVariableContains(t *testing.T) {
	a := Variable{Members: []Member{RefMember(1), RefMember(2)}}
	b := Variable{Members: []Member{RefMember(1), RefMember(2)}}
	if got := a.Contains(b); got != Equal {
		t.Fatalf("expected Equal, got %v", got)
	}

	c := Variable{Members: []Member{RefMember(2)}}
	if got := a.Contains(c); got != Partial {
		t.Fatalf("expected Partial (c is a's suffix), got %v", got)
	}
	if got := c.Contains(a); got != Partial {
		t.Fatalf("expected Partial the other way too, got %v", got)
	}

	d := Variable{Members: []Member{RefMember(9)}}
	if got := a.Contains(d); got != NotEqual {
		t.Fatalf("expected NotEqual, got %v", got)
	}
}

func TestMemberEqual(t *testing.T) {
	if !RefMember(5).Equal(RefMember(5)) {
		t.Fatal("expected equal references")
	}
	if RefMember(5).Equal(RefMember(6)) {
		t.Fatal("expected unequal references")
	}
	if !GlobalMember("msg").Equal(GlobalMember("msg")) {
		t.Fatal("expected equal globals")
	}
	if RefMember(5).Equal(GlobalMember("msg")) {
		t.Fatal("different kinds must not be equal")
	}
}

func TestCacheKeyStableAndDistinct(t *testing.T) {
	v1 := Variable{Members: []Member{RefMember(1), GlobalMember("sender")}}
	v2 := Variable{Members: []Member{RefMember(1), GlobalMember("sender")}}
	v3 := Variable{Members: []Member{RefMember(2), GlobalMember("sender")}}
	if v1.CacheKey() != v2.CacheKey() {
		t.Fatal("expected identical chains to hash identically")
	}
	if v1.CacheKey() == v3.CacheKey() {
		t.Fatal("expected different chains to hash differently")
	}
}

func TestClassifyOperator(t *testing.T) {
	if ClassifyOperator("=") != OpEqual {
		t.Fatal("= should classify as OpEqual")
	}
	if ClassifyOperator("delete") != OpEqual {
		t.Fatal("delete should classify as OpEqual")
	}
	for _, op := range []string{"+=", "-=", "*=", "++", "--"} {
		if ClassifyOperator(op) != OpOther {
			t.Fatalf("%s should classify as OpOther", op)
		}
	}
}
