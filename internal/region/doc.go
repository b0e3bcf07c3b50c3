// Package region extracts a navigable outline from #region / #endregion
// markers in plain document text.
//
// # Overview
//
// Editors in many languages let authors fence off named spans of a file with
// comment markers:
//
//	// #region Handlers
//	...
//	// #endregion
//
//	/* #region Styles */
//	...
//	/* #endregion */
//
//	<!-- #region Layout -->
//	...
//	<!-- #endregion -->
//
// Extract scans the text line by line and returns a Forest: an ordered slice
// of top-level Region nodes, each carrying its label, the 0-based line of its
// opening marker, and the regions nested inside it.
//
// # Matching rules
//
//   - Markers are matched with regular expressions over raw lines. There is no
//     lexer, so a marker inside a string literal is still a marker.
//
//   - Nesting is resolved by a stack: a close always ends the most recently
//     opened region, whatever its label. A close with nothing open is
//     ignored, and regions left open at the end of the text stay where they
//     were attached.
//
//   - A line containing "<!--" starts an HTML comment span and a line
//     containing "-->" ends it. Both checks run before the marker checks on
//     the same line. Markers inside a span are ignored.
//
//   - A region without a label is named "Region N", where N counts the
//     siblings it is appended to.
//
// # Usage
//
//	forest := region.Extract(text)
//	forest.Walk(func(r *region.Region, depth int) {
//		fmt.Printf("%s%s (line %d)\n", strings.Repeat("  ", depth), r.Label, r.StartLine+1)
//	})
//
// Extract never fails and holds no state between calls, so it is safe to call
// from any goroutine.
package region
