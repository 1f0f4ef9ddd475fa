package modules

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quetzal-lang/quetzal/core"
)

func run(t *testing.T, root string, src string) (string, error) {
	t.Helper()
	return core.RunContext(context.Background(), src, NewRegistry(root))
}

func mustRun(t *testing.T, root string, src string) string {
	t.Helper()
	out, err := run(t, root, src)
	if err != nil {
		t.Fatalf("run error: %v\nsource:\n%s", err, src)
	}
	return out
}

func wantKind(t *testing.T, err error, kind core.ErrorKind) {
	t.Helper()
	var rerr *core.RuntimeError
	if !errors.As(err, &rerr) || rerr.Kind != kind {
		t.Fatalf("expected %s, got %v", kind, err)
	}
}

func TestRegistryNames(t *testing.T) {
	want := []string{"factorial", "length", "lower", "pow", "read_file", "split", "sqrt", "upper", "write_file"}
	got := NewRegistry("").Names()
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestMath(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"-> factorial(0)", "1"},
		{"-> factorial(5)", "120"},
		{"-> factorial(20)", "2432902008176640000"},
		{"-> pow(2, 10)", "1024"},
		{"-> pow(2, 0)", "1"},
		{"-> pow(3, 5)", "243"},
		{"-> pow(2, 62)", "4611686018427387904"},
		{"-> pow(0 - 2, 63)", "-9223372036854775808"},
		{"-> pow(0 - 3, 3)", "-27"},
		{"-> pow(1, 9000000000000000000)", "1"},
		{"-> pow(0 - 1, 9000000000000000001)", "-1"},
		{"-> pow(0, 9000000000000000000)", "0"},
		{"-> pow(2, 0.5) :> 1.41", "true"},
		{"-> pow(2, 0 - 1)", "0.5"},
		{"-> pow(1.5, 2)", "2.25"},
		{"-> sqrt(16)", "4.0"},
		{"-> sqrt(2.25)", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := mustRun(t, "", tt.src); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMathErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind core.ErrorKind
	}{
		{"integer n : 0\nn--\n-> factorial(n)", core.ArithmeticError},
		{"-> factorial(21)", core.ArithmeticError},
		{"-> pow(2, 63)", core.ArithmeticError},
		{"-> pow(2, 64)", core.ArithmeticError},
		{"-> pow(10, 19)", core.ArithmeticError},
		{"-> pow(0 - 2, 64)", core.ArithmeticError},
		{"-> pow(3, 9000000000000000000)", core.ArithmeticError},
		{"-> factorial(2.0)", core.TypeError},
		{"-> sqrt(\"4\")", core.TypeError},
		{"-> sqrt(0 - 4)", core.ArithmeticError},
		{"-> pow(2)", core.TypeError},
		{"-> pow('a', 2)", core.TypeError},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := run(t, "", tt.src)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestPowLargeExponentFinishes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := core.RunContext(ctx, "-> pow(1, 9000000000000000000)\n-> pow(2, 9000000000000000000)", NewRegistry(""))
	wantKind(t, err, core.ArithmeticError)
	if out != "" {
		t.Fatalf("unexpected output %q", out)
	}
	if ctx.Err() != nil {
		t.Fatal("pow did not finish before the deadline")
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`-> upper("Hello")`, "HELLO"},
		{`-> lower("Hello")`, "hello"},
		{`-> upper('q')`, "Q"},
		{`-> split("a,b,c", ",")`, "[a, b, c]"},
		{`-> split("a  b c", "")`, "[a, b, c]"},
		{`-> split("a-b", '-')`, "[a, b]"},
		{`-> length("hello")`, "5"},
		{`-> length("")`, "0"},
		{`-> length('x')`, "1"},
		{`-> length("héllo")`, "5"},
		{"array integer a[1, 2, 3]\n-> length(a)", "3"},
		{"array string parts[]\nparts : split(\"x y\", \" \")\n-> parts[1]", "y"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := mustRun(t, "", tt.src); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStringErrors(t *testing.T) {
	for _, src := range []string{"-> upper(1)", "-> lower(2.5)", `-> split(1, ",")`, `-> split("a", 1)`, "-> length(4)"} {
		t.Run(src, func(t *testing.T) {
			_, err := run(t, "", src)
			wantKind(t, err, core.TypeError)
		})
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()

	src := `string text : "line one"
-> write_file("notes.txt", text)
-> read_file("notes.txt")`
	if got := mustRun(t, root, src); got != "8\nline one" {
		t.Fatalf("unexpected output %q", got)
	}

	content, err := os.ReadFile(filepath.Join(root, "notes.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "line one" {
		t.Fatalf("unexpected file content %q", content)
	}
}

func TestFilesAbsolutePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abs.txt")
	if err := os.WriteFile(path, []byte("42"), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry(t.TempDir())
	fn, ok := reg.Lookup("read_file")
	if !ok {
		t.Fatal("read_file is not registered")
	}
	v, rerr := fn.Fn([]core.Value{core.StringValue(path)})
	if rerr != nil {
		t.Fatal(rerr)
	}
	if v.String() != "42" {
		t.Fatalf("unexpected content %q", v)
	}
}

func TestFileErrors(t *testing.T) {
	root := t.TempDir()

	_, err := run(t, root, `-> read_file("missing.txt")`)
	wantKind(t, err, core.IOError)

	_, err = run(t, root, `-> write_file("no/such/dir/x.txt", "x")`)
	wantKind(t, err, core.IOError)

	_, err = run(t, root, `-> read_file(1)`)
	wantKind(t, err, core.TypeError)
}
