package hyprconf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/ardnew/hyprprofile/expand"
	"github.com/ardnew/hyprprofile/log"
)

func vars(kv ...string) expand.Source {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}

	return expand.Source{Custom: m}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []Entry
	}{
		{
			name:  "single assignment",
			lines: []string{"a=1"},
			want:  []Entry{{"a", "1"}},
		},
		{
			name:  "whitespace trimmed",
			lines: []string{"   general:gaps_in   =   5   "},
			want:  []Entry{{"general:gaps_in", "5"}},
		},
		{
			name:  "nested scopes innermost first",
			lines: []string{"outer {", "inner {", "x = 5", "}", "}"},
			want:  []Entry{{"inner:outer:x", "5"}},
		},
		{
			name: "scope closes",
			lines: []string{
				"decoration {", "rounding = 10", "blur {", "size = 8", "}",
				"active_opacity = 0.9", "}", "top = 1",
			},
			want: []Entry{
				{"decoration:rounding", "10"},
				{"blur:decoration:size", "8"},
				{"decoration:active_opacity", "0.9"},
				{"top", "1"},
			},
		},
		{
			name:  "scope name trimmed",
			lines: []string{"  input   {", "kb_layout = us", "}"},
			want:  []Entry{{"input:kb_layout", "us"}},
		},
		{
			name:  "comments",
			lines: []string{"# comment", "a=1 # trailing"},
			want:  []Entry{{"a", "1"}},
		},
		{
			name:  "comment marker in value only",
			lines: []string{"col.active_border = rgba(33ccffee)#ignored"},
			want:  []Entry{{"col.active_border", "rgba(33ccffee)"}},
		},
		{
			name:  "commented scope ignored",
			lines: []string{"# misc {", "a=1"},
			want:  []Entry{{"a", "1"}},
		},
		{
			name:  "unmatched close",
			lines: []string{"}", "a=1"},
			want:  []Entry{{"a", "1"}},
		},
		{
			name:  "many unmatched closes",
			lines: []string{"}", "}", "s {", "}", "}", "a=1"},
			want:  []Entry{{"a", "1"}},
		},
		{
			name:  "split at first separator",
			lines: []string{"bind = SUPER, Q, exec, env A=B kitty"},
			want:  []Entry{{"bind", "SUPER, Q, exec, env A=B kitty"}},
		},
		{
			name:  "empty value",
			lines: []string{"a ="},
			want:  []Entry{{"a", ""}},
		},
		{
			name:  "lines without separator skipped",
			lines: []string{"", "   ", "nonsense", "a=1"},
			want:  []Entry{{"a", "1"}},
		},
		{
			name:  "scope open with assignment emits both",
			lines: []string{"a = {", "b = 2", "}"},
			want:  []Entry{{"a =:a", "{"}, {"a =:b", "2"}},
		},
		{
			name:  "close with assignment pops first",
			lines: []string{"s {", "} x = 1"},
			want:  []Entry{{"} x", "1"}},
		},
		{
			name:  "unmarked line stays literal",
			lines: []string{"a=${NAME}"},
			want:  []Entry{{"a", "${NAME}"}},
		},
		{
			name:  "carriage return trimmed",
			lines: []string{"a=1\r"},
			want:  []Entry{{"a", "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.lines, WithVariables(vars("NAME", "v")))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q)\n got  %v\n want %v", tt.lines, got, tt.want)
			}
		})
	}
}

func TestParse_Macro(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []Entry
	}{
		{
			name:  "expanded",
			lines: []string{"#!a=${NAME}"},
			want:  []Entry{{"a", "v"}},
		},
		{
			name:  "marker then whitespace",
			lines: []string{"  #!   a = ${NAME}-x  "},
			want:  []Entry{{"a", "v-x"}},
		},
		{
			name:  "scoped",
			lines: []string{"general {", "#! border_size = ${NAME}", "}"},
			want:  []Entry{{"general:border_size", "v"}},
		},
		{
			name:  "missing is empty",
			lines: []string{"#!a=${MISSING}"},
			want:  []Entry{{"a", ""}},
		},
		{
			name:  "trailing comment dropped before expansion",
			lines: []string{"#!a=${NAME} # ${NAME}"},
			want:  []Entry{{"a", "v"}},
		},
		{
			name:  "marker followed by comment",
			lines: []string{"#!# a=${NAME}"},
			want:  nil,
		},
		{
			name:  "key not expanded",
			lines: []string{"#!${NAME}=1"},
			want:  []Entry{{"${NAME}", "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.lines, WithVariables(vars("NAME", "v")))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q)\n got  %v\n want %v", tt.lines, got, tt.want)
			}
		})
	}
}

func TestParse_DefaultVariablesUseEnvironment(t *testing.T) {
	t.Setenv("HYPRPROFILE_TEST_GAP", "12")

	got := Parse([]string{"#!gaps_out=${HYPRPROFILE_TEST_GAP}"})
	if want := []Entry{{"gaps_out", "12"}}; !slices.Equal(got, want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}

	got = Parse(
		[]string{"#!gaps_out=${HYPRPROFILE_TEST_GAP}"},
		WithVariables(vars("HYPRPROFILE_TEST_GAP", "4")),
	)
	if want := []Entry{{"gaps_out", "4"}}; !slices.Equal(got, want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestParse_Deterministic(t *testing.T) {
	lines := []string{"a {", "b {", "}", "#!c=${X}", "}", "}", "d {", "e=1"}
	p := New(WithVariables(vars("X", "x")))

	first, _ := p.Parse(lines)
	second, _ := p.Parse(lines)

	if !slices.Equal(first, second) {
		t.Errorf("re-parse differs:\n %v\n %v", first, second)
	}

	// Scopes left open by one call must not leak into the next.
	third, _ := p.Parse([]string{"z=1"})
	if want := []Entry{{"z", "1"}}; !slices.Equal(third, want) {
		t.Errorf("scope leaked across calls: %v", third)
	}
}

func TestParser_Concurrent(t *testing.T) {
	p := New(WithVariables(vars("X", "x")))
	lines := []string{"a {", "#!b=${X}", "}"}
	want := []Entry{{"a:b", "x"}}

	var wg sync.WaitGroup
	for range 32 {
		wg.Go(func() {
			if got, _ := p.Parse(lines); !slices.Equal(got, want) {
				t.Errorf("Parse = %v, want %v", got, want)
			}
		})
	}
	wg.Wait()
}

func TestParser_Strict(t *testing.T) {
	lines := []string{
		"# fine",
		"nonsense",
		"}",
		"= 1",
		"ok {",
		"",
		"a = 1",
	}

	lenient, err := New().Parse(lines)
	if err != nil {
		t.Fatalf("lenient Parse error: %v", err)
	}

	strict, err := New(WithStrict(true)).Parse(lines)
	if err == nil {
		t.Fatal("strict Parse returned nil error")
	}

	if !slices.Equal(lenient, strict) {
		t.Errorf("strict entries differ:\n %v\n %v", lenient, strict)
	}

	tests := []struct {
		sentinel error
		line     int
		text     string
	}{
		{ErrMissingSeparator, 2, "nonsense"},
		{ErrUnbalancedScope, 3, "}"},
		{ErrEmptyKey, 4, "= 1"},
		{ErrUnclosedScope, 7, "ok"},
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("error %T does not unwrap to a list", err)
	}

	errs := joined.Unwrap()
	if len(errs) != len(tests) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(tests), err)
	}

	for i, tt := range tests {
		var le *LineError
		if !errors.As(errs[i], &le) {
			t.Errorf("errs[%d] = %T, want *LineError", i, errs[i])

			continue
		}

		if !errors.Is(le, tt.sentinel) {
			t.Errorf("errs[%d] = %v, want %v", i, le, tt.sentinel)
		}

		if le.Line != tt.line || le.Text != tt.text {
			t.Errorf("errs[%d] at %d %q, want %d %q", i, le.Line, le.Text, tt.line, tt.text)
		}
	}
}

func TestParser_Strict_CleanInput(t *testing.T) {
	lines := []string{"# header", "", "general {", "gaps_in = 5 # px", "}", "#!a=${X}"}

	if _, err := New(WithStrict(true)).Parse(lines); err != nil {
		t.Errorf("strict Parse of clean input: %v", err)
	}
}

func TestParser_ParseReader(t *testing.T) {
	input := "decoration {\n  rounding = 10\r\n}\n#!a=${X}\nlast=1"
	p := New(WithVariables(vars("X", "x")))

	got, err := p.ParseReader(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	want := []Entry{{"decoration:rounding", "10"}, {"a", "x"}, {"last", "1"}}
	if !slices.Equal(got, want) {
		t.Errorf("ParseReader = %v, want %v", got, want)
	}

	fromLines, _ := p.Parse(strings.Split(input, "\n"))
	if !slices.Equal(got, fromLines) {
		t.Errorf("ParseReader and Parse disagree:\n %v\n %v", got, fromLines)
	}
}

func TestParser_ParseReader_Errors(t *testing.T) {
	t.Run("read failure", func(t *testing.T) {
		boom := errors.New("boom")
		r := io.MultiReader(strings.NewReader("a=1\n"), iotest.ErrReader(boom))

		got, err := New().ParseReader(context.Background(), r)
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want %v", err, boom)
		}

		if want := []Entry{{"a", "1"}}; !slices.Equal(got, want) {
			t.Errorf("entries = %v, want %v", got, want)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := New().ParseReader(ctx, strings.NewReader("a=1")); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})

	t.Run("strict line numbers", func(t *testing.T) {
		_, err := New(WithStrict(true)).ParseReader(
			context.Background(), strings.NewReader("a=1\n\nbad\n"))

		var le *LineError
		if !errors.As(err, &le) || le.Line != 3 {
			t.Errorf("err = %v, want line 3", err)
		}
	})
}

func TestParser_Logger(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithPretty(false))
	Parse([]string{"oops"}, WithLogger(logger))

	if !strings.Contains(buf.String(), "missing separator") {
		t.Errorf("expected trace output, got %q", buf.String())
	}
}

func TestParser_Logger_Unresolved(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithPretty(false), log.WithTimeLayout("none"))
	got := Parse([]string{"#! monitor = ${OUT},auto"},
		WithLogger(logger), WithVariables(vars()))

	if len(got) != 1 || got[0].Value != ",auto" {
		t.Errorf("Parse = %v", got)
	}

	out := buf.String()
	if !strings.Contains(out, "unresolved variables") || !strings.Contains(out, "OUT") {
		t.Errorf("expected warning naming OUT, got %q", out)
	}
}

func TestEntry_String(t *testing.T) {
	if got := (Entry{"general:gaps_in", "5"}).String(); got != "general:gaps_in=5" {
		t.Errorf("String() = %q", got)
	}
}

func TestLineError_Error(t *testing.T) {
	err := &LineError{Line: 4, Text: "x", Err: ErrMissingSeparator}
	if got, want := err.Error(), `line 4: missing separator: "x"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func BenchmarkParse(b *testing.B) {
	var lines []string
	for range 50 {
		lines = append(lines,
			"# comment",
			"general {",
			"gaps_in = 5 # px",
			"#! border_size = ${BORDER}",
			"}",
		)
	}

	p := New(WithVariables(vars("BORDER", "2")))

	for b.Loop() {
		_, _ = p.Parse(lines)
	}
}
