// Package accession parses the accession declarations found in ICTV
// taxonomy tables. A declaration lists identifiers grouped by genome
// segment markers ("L:", "M:", "S:"), separated by commas or
// semicolons, with optional hyphenated ranges:
//
//	L: MN123456-MN123460, M: MN234567; S: MN234568
//
// Parsing never fails as a whole: malformed tokens are reported and
// skipped so one bad entry cannot sink a run.
package accession

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment identifies one part of a segmented virus genome.
type Segment string

const (
	SegmentL Segment = "L"
	SegmentM Segment = "M"
	SegmentS Segment = "S"

	// SegmentAll selects every segment group in a declaration.
	SegmentAll Segment = "all"
)

// ParseSegment validates a user-supplied segment choice.
func ParseSegment(s string) (Segment, error) {
	switch Segment(s) {
	case SegmentL, SegmentM, SegmentS, SegmentAll:
		return Segment(s), nil
	}
	return "", fmt.Errorf("unknown segment %q (valid choices: L, M, S, all)", s)
}

// Group holds the identifiers declared for one segment, in declaration
// order. Groups returned by Parse always carry at least one identifier.
type Group struct {
	Segment Segment
	IDs     []string
}

// TokenError records one malformed token or marker. The surrounding
// declaration continues past it.
type TokenError struct {
	Token  string
	Reason string
}

func (e TokenError) Error() string {
	return fmt.Sprintf("accession token %q: %s", e.Token, e.Reason)
}

// Parse scans a raw declaration and returns its segment groups in
// first-appearance order, with hyphenated ranges expanded. Identifiers
// keep declaration order and are not deduplicated; a repeated marker
// appends to its segment's existing group. filter narrows the result
// to one segment, SegmentAll keeps every group. Identifiers appearing
// before any marker have no segment and are ignored.
func Parse(raw string, filter Segment) ([]Group, []TokenError) {
	var (
		groups     []Group
		errs       []TokenError
		active     Segment
		haveActive bool
	)
	bySegment := make(map[Segment]int)
	for _, piece := range splitPieces(raw) {
		tok := piece
		if i := strings.IndexByte(piece, ':'); i >= 0 {
			switch code := Segment(strings.TrimSpace(piece[:i])); code {
			case SegmentL, SegmentM, SegmentS:
				active, haveActive = code, true
				tok = strings.TrimSpace(piece[i+1:])
			default:
				errs = append(errs, TokenError{Token: piece, Reason: "unrecognised segment marker"})
				haveActive = false
				continue
			}
		}
		if tok == "" || !haveActive {
			continue
		}
		if filter != SegmentAll && active != filter {
			continue
		}
		ids, terr := ExpandToken(tok)
		if terr != nil {
			errs = append(errs, *terr)
		}
		if len(ids) == 0 {
			continue
		}
		gi, ok := bySegment[active]
		if !ok {
			groups = append(groups, Group{Segment: active})
			gi = len(groups) - 1
			bySegment[active] = gi
		}
		groups[gi].IDs = append(groups[gi].IDs, ids...)
	}
	return groups, errs
}

// splitPieces breaks a declaration on commas and semicolons, trimming
// surrounding whitespace from each piece.
func splitPieces(raw string) []string {
	pieces := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	for i, p := range pieces {
		pieces[i] = strings.TrimSpace(p)
	}
	return pieces
}

// ExpandToken turns one token into identifiers. A token without a
// hyphen is returned verbatim. A START-END range expands through the
// trailing digit runs of both sides: the prefix comes from START, the
// numbers span start through end inclusive, and each number is
// zero-padded to START's digit width. Numbers wider than that keep
// their natural width, so AB99-AB101 yields AB99, AB100, AB101 while
// X007-X010 stays padded. A nil TokenError means the token was sound.
func ExpandToken(tok string) ([]string, *TokenError) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, nil
	}
	if !strings.Contains(tok, "-") {
		return []string{tok}, nil
	}
	parts := strings.Split(tok, "-")
	if len(parts) != 2 {
		return nil, &TokenError{Token: tok, Reason: "more than one hyphen in range"}
	}
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	startPrefix, startDigits := splitTrailingDigits(start)
	if startDigits == "" {
		return nil, &TokenError{Token: tok, Reason: "range start has no trailing number"}
	}
	endPrefix, endDigits := splitTrailingDigits(end)
	if endDigits == "" {
		return nil, &TokenError{Token: tok, Reason: "range end has no trailing number"}
	}
	// A bare number on the right reuses the left prefix (MK0001-4);
	// a different prefix makes the range ambiguous.
	if endPrefix != "" && endPrefix != startPrefix {
		return nil, &TokenError{
			Token:  tok,
			Reason: fmt.Sprintf("range prefixes differ (%q vs %q)", startPrefix, endPrefix),
		}
	}
	startN, err := strconv.Atoi(startDigits)
	if err != nil {
		return nil, &TokenError{Token: tok, Reason: "range start number too large"}
	}
	endN, err := strconv.Atoi(endDigits)
	if err != nil {
		return nil, &TokenError{Token: tok, Reason: "range end number too large"}
	}
	if endN < startN {
		return nil, &TokenError{Token: tok, Reason: "range end precedes range start"}
	}
	width := len(startDigits)
	ids := make([]string, 0, endN-startN+1)
	for n := startN; n <= endN; n++ {
		ids = append(ids, fmt.Sprintf("%s%0*d", startPrefix, width, n))
	}
	return ids, nil
}

// splitTrailingDigits splits s into everything before its trailing
// digit run and the run itself. Either part may be empty.
func splitTrailingDigits(s string) (prefix, digits string) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[:i], s[i:]
}
