package formula

import "strings"

// Normalize canonicalizes a textual reference into "Sheet!A1[:A1]" form:
//   - prepends currentSheet when the reference carries no sheet prefix
//   - unquotes a single-quoted sheet prefix, un-doubling '' to '
//   - strips every '$' absolute marker from each A1 endpoint
//   - normalizes each endpoint of a range independently
//   - leaves bare-column ranges (e.g. "D:D") as-is
//
// Normalize is idempotent: Normalize(Normalize(r, s), s) == Normalize(r, s).
func Normalize(ref, currentSheet string) string {
	sheet, coord, hasSheet := splitSheetPrefix(ref)
	if !hasSheet {
		sheet = currentSheet
	}
	return sheet + "!" + normalizeCoord(coord)
}

// splitSheetPrefix splits "Sheet!A1" into ("Sheet", "A1", true), or
// "'My Sheet'!A1" into ("My Sheet", "A1", true) with the quoting undone. A
// reference with no '!' returns ("", ref, false).
func splitSheetPrefix(ref string) (sheet, rest string, hasSheet bool) {
	if strings.HasPrefix(ref, "'") {
		// find the terminating quote that is followed by '!', skipping
		// doubled apostrophes ('') along the way.
		i := 1
		for i < len(ref) {
			if ref[i] == '\'' {
				if i+1 < len(ref) && ref[i+1] == '\'' {
					i += 2
					continue
				}
				break
			}
			i++
		}
		quoted := ref[1:i]
		unquoted := strings.ReplaceAll(quoted, "''", "'")
		// ref[i] is the closing quote; ref[i+1] should be '!'.
		remainder := ref[i+1:]
		remainder = strings.TrimPrefix(remainder, "!")
		return unquoted, remainder, true
	}

	bang := strings.IndexByte(ref, '!')
	if bang < 0 {
		return "", ref, false
	}
	return ref[:bang], ref[bang+1:], true
}

func normalizeCoord(coord string) string {
	if i := strings.IndexByte(coord, ':'); i >= 0 {
		return normalizeEndpoint(coord[:i]) + ":" + normalizeEndpoint(coord[i+1:])
	}
	return normalizeEndpoint(coord)
}

// normalizeEndpoint strips '$' markers from a single A1 endpoint. A
// bare-column endpoint (no digits, e.g. "D") is returned unchanged aside
// from the '$' strip, per spec's bare-column-range carve-out.
func normalizeEndpoint(endpoint string) string {
	return strings.ReplaceAll(endpoint, "$", "")
}

// QuoteSheetName re-quotes a sheet name for embedding in formula source,
// doubling any apostrophe, if the name requires quoting (contains a space,
// apostrophe, or '!'). It has no caller in this repository; the
// canonical printer emits sheet names as stored on the AST.
func QuoteSheetName(name string) string {
	if !needsQuoting(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func needsQuoting(name string) bool {
	for _, r := range name {
		if r == ' ' || r == '\'' || r == '!' {
			return true
		}
	}
	return false
}
