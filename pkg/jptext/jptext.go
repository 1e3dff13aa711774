// Package jptext provides the Japanese text handling shared by both fetch
// paths: Shift_JIS decoding of the ledger export and halfwidth-katakana
// normalization. Record matching compares free-text fields byte for byte, so
// every fetched row must go through Normalize before it is used.
package jptext

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxBody caps how much of a response body is decoded.
const maxBody = 4 << 20

// DecodeShiftJIS reads at most 4 MiB from r and decodes it as Shift_JIS.
func DecodeShiftJIS(r io.Reader) (string, error) {
	decoded, err := io.ReadAll(transform.NewReader(io.LimitReader(r, maxBody), japanese.ShiftJIS.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("shift_jis decode: %w", err)
	}
	return string(decoded), nil
}

// DecodeCharset reads at most 4 MiB from r and decodes it per the declared
// IANA charset name, e.g. the charset parameter of a Content-Type header. An
// empty or unrecognized charset falls back to UTF-8.
func DecodeCharset(r io.Reader, charset string) (string, error) {
	r = io.LimitReader(r, maxBody)
	if charset != "" {
		if enc, err := htmlindex.Get(charset); err == nil {
			r = transform.NewReader(r, enc.NewDecoder())
		}
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%s decode: %w", charset, err)
	}
	return string(decoded), nil
}

// Normalize widens halfwidth katakana to fullwidth and composes voiced sound
// marks, so ｶﾚｰ becomes カレー and ｶﾞ becomes the single rune ガ. Runes
// outside the halfwidth-katakana block are left untouched; dates and amounts
// in the same CSV survive unchanged.
func Normalize(s string) string {
	if !strings.ContainsFunc(s, isHalfwidthKana) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	runStart := -1 // byte offset of the current halfwidth-kana run
	for i, r := range s {
		if isHalfwidthKana(r) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			b.WriteString(widenRun(s[runStart:i]))
			runStart = -1
		}
		b.WriteRune(r)
	}
	if runStart >= 0 {
		b.WriteString(widenRun(s[runStart:]))
	}
	return b.String()
}

// widenRun converts one maximal run of halfwidth katakana. NFKC both widens
// the letters and folds trailing voiced marks into composed characters.
func widenRun(run string) string {
	return norm.NFKC.String(run)
}

func isHalfwidthKana(r rune) bool {
	return r >= 0xFF61 && r <= 0xFF9F
}
