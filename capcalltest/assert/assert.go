// Package assert holds the few assertions the ledger tests need. Each of
// them stops the test on failure.
package assert

import "reflect"

// Tester is the part of testing.TB the assertions use.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil chan, func, map, pointer or
// slice. A wrapped error is printed with its stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !nilValue(value) {
		t.Fatalf("want nil, got %+v", value)
	}
}

func nilValue(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	if !panics(fn) {
		t.Fatal("panic expected")
	}
}

func panics(fn func()) (panicked bool) {
	defer func() {
		panicked = recover() != nil
	}()
	fn()
	return false
}

// IsErr fails unless got is want or wraps it. A nil want, typed or not,
// accepts only a nil got.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if root, ok := want.(interface{ Is(error) bool }); ok && root.Is(got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}
