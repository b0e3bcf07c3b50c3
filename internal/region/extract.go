package region

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// space matches the same characters as \s in ECMAScript, including NBSP,
// vertical tab and the other Unicode space separators.
const space = `[\t\n\v\f\r\p{Zs}\x{FEFF}\x{2028}\x{2029}]`

var (
	// #region, an optional label, then an optional */ or --> before end of line
	openPattern = regexp.MustCompile(`(?i)#region(?:` + space + `+(.*?))?(?:` + space + `*\*/|` + space + `*-->|` + space + `*)$`)

	closePattern = regexp.MustCompile(`(?i)#endregion`)

	lineBreak = regexp.MustCompile(`\r?\n`)
)

const (
	htmlCommentOpen  = "<!--"
	htmlCommentClose = "-->"
)

// Extract parses text and returns the regions it declares.
// Text without markers yields an empty, non-nil Forest.
func Extract(text string) Forest {
	forest := Forest{}
	var stack []*Region
	inHTMLComment := false

	for i, line := range lineBreak.Split(text, -1) {
		// Comment state is updated before the marker tests on the same line.
		if strings.Contains(line, htmlCommentOpen) {
			inHTMLComment = true
		}
		if strings.Contains(line, htmlCommentClose) {
			inHTMLComment = false
		}

		if m := openPattern.FindStringSubmatch(line); m != nil && !inHTMLComment {
			var siblings *[]*Region
			if len(stack) > 0 {
				siblings = &stack[len(stack)-1].Children
			} else {
				siblings = (*[]*Region)(&forest)
			}

			label := m[1]
			if label == "" {
				label = fmt.Sprintf("Region %d", len(*siblings)+1)
			}

			r := &Region{
				Label:     label,
				StartLine: i,
				Children:  []*Region{},
			}
			*siblings = append(*siblings, r)
			stack = append(stack, r)
		} else if closePattern.MatchString(line) && !inHTMLComment && len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
	}

	return forest
}

// ExtractReader reads all of r and extracts its regions.
func ExtractReader(r io.Reader) (Forest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Extract(string(data)), nil
}
