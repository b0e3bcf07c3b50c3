package region

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func leaf(label string, line int) *Region {
	return &Region{Label: label, StartLine: line}
}

func node(label string, line int, children ...*Region) *Region {
	return &Region{Label: label, StartLine: line, Children: children}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Forest
	}{
		{
			name: "empty document",
			text: "",
			want: Forest{},
		},
		{
			name: "no markers",
			text: lines("package main", "", "func main() {}"),
			want: Forest{},
		},
		{
			name: "nested regions",
			text: lines("a", "#region Foo", "b", "#region Bar", "c", "#endregion", "d", "#endregion", "e"),
			want: Forest{node("Foo", 1, leaf("Bar", 3))},
		},
		{
			name: "unlabelled region",
			text: lines("#region", "x", "#endregion"),
			want: Forest{leaf("Region 1", 0)},
		},
		{
			name: "siblings",
			text: lines("#region One", "#endregion", "#region Two", "#endregion"),
			want: Forest{leaf("One", 0), leaf("Two", 2)},
		},
		{
			name: "block comment markers",
			text: lines("/* #region Styles */", ".a {}", "/* #endregion */"),
			want: Forest{leaf("Styles", 0)},
		},
		{
			name: "html comment markers",
			text: lines("<!-- #region Layout -->", "<div></div>", "<!-- #endregion -->"),
			want: Forest{leaf("Layout", 0)},
		},
		{
			name: "line comment markers",
			text: lines("  // #region Handlers", "  // #endregion"),
			want: Forest{leaf("Handlers", 0)},
		},
		{
			name: "case insensitive",
			text: lines("#REGION Loud", "#EndRegion"),
			want: Forest{leaf("Loud", 0)},
		},
		{
			name: "trailing whitespace trimmed",
			text: lines("#region Padded   ", "#endregion"),
			want: Forest{leaf("Padded", 0)},
		},
		{
			name: "non-breaking space separator",
			text: lines("#region\u00a0Foo", "#endregion"),
			want: Forest{leaf("Foo", 0)},
		},
		{
			name: "vertical tab separator",
			text: lines("#region\vFoo", "#endregion"),
			want: Forest{leaf("Foo", 0)},
		},
		{
			name: "trailing non-breaking space trimmed",
			text: lines("#region Foo\u00a0", "#endregion"),
			want: Forest{leaf("Foo", 0)},
		},
		{
			name: "unicode space before comment close",
			text: lines("<!-- #region\u3000Layout\u2003-->", "<!-- #endregion -->"),
			want: Forest{leaf("Layout", 0)},
		},
		{
			name: "crlf line endings",
			text: "#region Win\r\nx\r\n#region Inner\r\n#endregion\r\n#endregion\r\n",
			want: Forest{node("Win", 0, leaf("Inner", 2))},
		},
		{
			name: "stray close ignored",
			text: lines("#endregion", "#region A", "#endregion", "#endregion", "#region B", "#endregion"),
			want: Forest{leaf("A", 1), leaf("B", 4)},
		},
		{
			name: "unterminated regions stay nested",
			text: lines("#region Outer", "#region Inner", "#region Deepest"),
			want: Forest{node("Outer", 0, node("Inner", 1, leaf("Deepest", 2)))},
		},
		{
			name: "close ends most recent region regardless of label",
			text: lines("#region A", "#region B", "#endregion A", "#region C", "#endregion", "#endregion"),
			want: Forest{node("A", 0, leaf("B", 1), leaf("C", 3))},
		},
		{
			name: "placeholder numbering is per sibling list",
			text: lines("#region", "#region", "#endregion", "#region", "#endregion", "#endregion", "#region", "#endregion"),
			want: Forest{
				node("Region 1", 0, leaf("Region 1", 1), leaf("Region 2", 3)),
				leaf("Region 2", 6),
			},
		},
		{
			name: "placeholder counts labelled siblings",
			text: lines("#region Named", "#endregion", "#region", "#endregion"),
			want: Forest{leaf("Named", 0), leaf("Region 2", 2)},
		},
		{
			name: "marker only followed by comment close",
			text: lines("<!-- #region -->", "<!-- #endregion -->"),
			want: Forest{leaf("Region 1", 0)},
		},
		{
			name: "word continuing marker is not a region",
			text: lines("#regions are fun", "#regional"),
			want: Forest{},
		},
		{
			name: "markers inside html comment span ignored",
			text: lines(
				"<!--",
				"#region Hidden",
				"still commented",
				"#region AlsoHidden",
				"-->",
				"#region Visible",
				"#endregion",
			),
			want: Forest{leaf("Visible", 5)},
		},
		{
			name: "self-contained comment line ends an open span",
			text: lines("<!--", "<!-- #region X -->", "#endregion"),
			want: Forest{leaf("X", 1)},
		},
		{
			name: "close inside html comment span ignored",
			text: lines("#region Keep", "<!--", "#endregion", "-->", "#region Child", "#endregion", "#endregion"),
			want: Forest{node("Keep", 0, leaf("Child", 4))},
		},
		{
			name: "comment opened on marker line suppresses it",
			text: lines("#region Open <!--", "#endregion", "-->"),
			want: Forest{},
		},
		{
			name: "trailing text after comment close stays in label",
			text: lines("/* #region A */ trailing", "#endregion"),
			want: Forest{leaf("A */ trailing", 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if got == nil {
				t.Fatal("Extract() returned nil forest")
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractBalancedChain(t *testing.T) {
	for _, n := range []int{1, 2, 5, 32} {
		t.Run(fmt.Sprintf("depth %d", n), func(t *testing.T) {
			var ls []string
			for i := 0; i < n; i++ {
				ls = append(ls, fmt.Sprintf("#region R%d", i))
			}
			for i := 0; i < n; i++ {
				ls = append(ls, "#endregion")
			}

			forest := Extract(lines(ls...))
			if len(forest) != 1 {
				t.Fatalf("expected 1 top-level region, got %d", len(forest))
			}

			r := forest[0]
			for i := 1; i < n; i++ {
				if len(r.Children) != 1 {
					t.Fatalf("level %d: expected 1 child, got %d", i, len(r.Children))
				}
				r = r.Children[0]
			}
			if len(r.Children) != 0 {
				t.Errorf("innermost region has %d children, want 0", len(r.Children))
			}
			if forest.Depth() != n {
				t.Errorf("Depth() = %d, want %d", forest.Depth(), n)
			}
		})
	}
}

func TestExtractChildrenNeverNil(t *testing.T) {
	forest := Extract(lines("#region Solo", "#endregion"))
	if len(forest) != 1 {
		t.Fatalf("expected 1 region, got %d", len(forest))
	}
	if forest[0].Children == nil {
		t.Error("expected empty, non-nil children")
	}
}

func TestExtractSiblingOrder(t *testing.T) {
	text := lines(
		"#region A", "#region A1", "#endregion", "#region A2", "#endregion", "#endregion",
		"#region B", "#endregion",
		"#endregion",
		"#region C", "#region C1",
	)

	var check func(Forest)
	check = func(regions Forest) {
		for i := 1; i < len(regions); i++ {
			if regions[i].StartLine < regions[i-1].StartLine {
				t.Errorf("sibling %q (line %d) before %q (line %d)",
					regions[i].Label, regions[i].StartLine, regions[i-1].Label, regions[i-1].StartLine)
			}
		}
		for _, r := range regions {
			check(r.Children)
		}
	}
	check(Extract(text))
}

func TestExtractMalformedInput(t *testing.T) {
	inputs := []string{
		"\n\n\n",
		"\r\n",
		"#endregion\n#endregion",
		"<!--\n<!--\n-->",
		"#region \x00\xff\xfe",
		strings.Repeat("#region x\n", 1000),
		strings.Repeat("#endregion\n#region\n", 500),
	}

	for i, in := range inputs {
		t.Run(fmt.Sprintf("input %d", i), func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Extract() panicked: %v", r)
				}
			}()
			_ = Extract(in)
		})
	}
}

func TestExtractReader(t *testing.T) {
	t.Run("reads whole document", func(t *testing.T) {
		forest, err := ExtractReader(strings.NewReader(lines("#region Foo", "#endregion")))
		if err != nil {
			t.Fatalf("ExtractReader() unexpected error: %v", err)
		}
		if len(forest) != 1 || forest[0].Label != "Foo" {
			t.Errorf("ExtractReader() = %v, want single region Foo", forest)
		}
	})

	t.Run("propagates read error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := ExtractReader(iotest.ErrReader(boom))
		if !errors.Is(err, boom) {
			t.Errorf("ExtractReader() error = %v, want %v", err, boom)
		}
	})
}
