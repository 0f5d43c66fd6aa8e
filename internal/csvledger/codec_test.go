package csvledger

import (
	"errors"
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello", "hello"},
		{"comma", "a,b", `"a,b"`},
		{"quotes", `say "hi"`, `"say ""hi"""`},
		{"newline", "line1\nline2", "\"line1\nline2\""},
		{"carriage return", "a\rb", "\"a\rb\""},
		{"only quote", `"`, `""""`},
		{"spaces untouched", "  padded  ", "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.in); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSerialize(t *testing.T) {
	header := []string{"date", "project", "seconds"}

	t.Run("empty row set yields header line only", func(t *testing.T) {
		got := Serialize(header, nil)
		if got != "date,project,seconds\n" {
			t.Errorf("Serialize = %q", got)
		}
	})

	t.Run("values emitted in header order", func(t *testing.T) {
		rows := []Row{{"seconds": "120", "date": "2026-08-27", "project": "wakasync"}}
		got := Serialize(header, rows)
		want := "date,project,seconds\n2026-08-27,wakasync,120\n"
		if got != want {
			t.Errorf("Serialize = %q, want %q", got, want)
		}
	})

	t.Run("missing columns serialize as empty", func(t *testing.T) {
		rows := []Row{{"date": "2026-08-27"}}
		got := Serialize(header, rows)
		want := "date,project,seconds\n2026-08-27,,\n"
		if got != want {
			t.Errorf("Serialize = %q, want %q", got, want)
		}
	})

	t.Run("special characters quoted", func(t *testing.T) {
		rows := []Row{{"date": "2026-08-27", "project": `a,"b"`, "seconds": "1"}}
		got := Serialize(header, rows)
		want := "date,project,seconds\n2026-08-27,\"a,\"\"b\"\"\",1\n"
		if got != want {
			t.Errorf("Serialize = %q, want %q", got, want)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			name       string
			in         string
			wantHeader []string
			wantRows   []Row
		}{
			{
				"header only",
				"date,seconds\n",
				[]string{"date", "seconds"},
				[]Row{},
			},
			{
				"simple rows",
				"date,seconds\n2026-08-27,100\n2026-08-28,200\n",
				[]string{"date", "seconds"},
				[]Row{
					{"date": "2026-08-27", "seconds": "100"},
					{"date": "2026-08-28", "seconds": "200"},
				},
			},
			{
				"no trailing newline",
				"date,seconds\n2026-08-27,100",
				[]string{"date", "seconds"},
				[]Row{{"date": "2026-08-27", "seconds": "100"}},
			},
			{
				"crlf line endings",
				"date,seconds\r\n2026-08-27,100\r\n",
				[]string{"date", "seconds"},
				[]Row{{"date": "2026-08-27", "seconds": "100"}},
			},
			{
				"blank lines skipped",
				"\ndate,seconds\n\n2026-08-27,100\n\n",
				[]string{"date", "seconds"},
				[]Row{{"date": "2026-08-27", "seconds": "100"}},
			},
			{
				"short row padded with empty strings",
				"date,project,seconds\n2026-08-27\n",
				[]string{"date", "project", "seconds"},
				[]Row{{"date": "2026-08-27", "project": "", "seconds": ""}},
			},
			{
				"extra trailing fields dropped",
				"date,seconds\n2026-08-27,100,ignored\n",
				[]string{"date", "seconds"},
				[]Row{{"date": "2026-08-27", "seconds": "100"}},
			},
			{
				"quoted comma",
				"date,project\n2026-08-27,\"a,b\"\n",
				[]string{"date", "project"},
				[]Row{{"date": "2026-08-27", "project": "a,b"}},
			},
			{
				"escaped quotes",
				"date,project\n2026-08-27,\"say \"\"hi\"\"\"\n",
				[]string{"date", "project"},
				[]Row{{"date": "2026-08-27", "project": `say "hi"`}},
			},
			{
				"newline inside quoted field",
				"date,note\n2026-08-27,\"line1\nline2\"\n",
				[]string{"date", "note"},
				[]Row{{"date": "2026-08-27", "note": "line1\nline2"}},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				header, rows, err := Parse(tt.in)
				if err != nil {
					t.Fatalf("Parse failed: %v", err)
				}
				assertHeader(t, header, tt.wantHeader)
				assertRows(t, rows, tt.wantRows)
			})
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			in   string
		}{
			{"empty input", ""},
			{"whitespace only", "\n\n"},
			{"unterminated quote", "date,note\n2026-08-27,\"oops\n"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, _, err := Parse(tt.in); !errors.Is(err, ErrMalformed) {
					t.Errorf("Parse(%q) error = %v, want ErrMalformed", tt.in, err)
				}
			})
		}
	})
}

// TestRoundTrip verifies Parse(Serialize(h, rows)) reproduces header and rows
// exactly, including values with commas, quotes and newlines.
func TestRoundTrip(t *testing.T) {
	header := []string{"date", "name", "note"}
	rows := []Row{
		{"date": "2026-08-27", "name": "plain", "note": "nothing special"},
		{"date": "2026-08-28", "name": "with,commas", "note": `quoted "twice" here`},
		{"date": "2026-08-29", "name": "multi\nline", "note": "trailing,\"mix\"\nhere"},
		{"date": "2026-08-30", "name": "", "note": "empty name"},
	}

	text := Serialize(header, rows)
	gotHeader, gotRows, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assertHeader(t, gotHeader, header)
	assertRows(t, gotRows, rows)

	// Serializing the parsed document must be byte-identical.
	if again := Serialize(gotHeader, gotRows); again != text {
		t.Errorf("second Serialize = %q, want %q", again, text)
	}
}

func assertHeader(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\x00") != strings.Join(want, "\x00") {
		t.Errorf("header = %q, want %q", got, want)
	}
}

func assertRows(t *testing.T, got, want []Row) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Errorf("row %d has %d columns, want %d", i, len(got[i]), len(want[i]))
		}
		for col, v := range want[i] {
			if got[i][col] != v {
				t.Errorf("row %d column %q = %q, want %q", i, col, got[i][col], v)
			}
		}
	}
}
