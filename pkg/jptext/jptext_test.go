package jptext

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"halfwidth katakana", "ｶﾚｰ", "カレー"},
		{"voiced mark composed", "ｶﾞ", "ガ"},
		{"semi-voiced mark composed", "ﾊﾟﾝ", "パン"},
		{"mixed with ascii", "唐揚げｶﾚｰM/ほうれん草", "唐揚げカレーM/ほうれん草"},
		{"ascii untouched", "2022/07/26,-123", "2022/07/26,-123"},
		{"fullwidth kana untouched", "カレー", "カレー"},
		{"fullwidth ascii untouched", "Ｍサイズ", "Ｍサイズ"},
		{"halfwidth punctuation", "ﾙﾈ･ｶﾌｪ｢朝｣", "ルネ・カフェ「朝」"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeComposesToSingleRune(t *testing.T) {
	got := Normalize("ｶﾞ")
	if n := len([]rune(got)); n != 1 {
		t.Errorf("Normalize(%q) = %q (%d runes), want one composed rune", "ｶﾞ", got, n)
	}
}

func TestDecodeShiftJIS(t *testing.T) {
	const text = "大学生協,唐揚げカレー,473"

	var buf bytes.Buffer
	w := transform.NewWriter(&buf, japanese.ShiftJIS.NewEncoder())
	if _, err := w.Write([]byte(text)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	got, err := DecodeShiftJIS(&buf)
	if err != nil {
		t.Fatalf("DecodeShiftJIS() error: %v", err)
	}
	if got != text {
		t.Errorf("DecodeShiftJIS() = %q, want %q", got, text)
	}
}

func TestDecodeCharset(t *testing.T) {
	const text = "京大ルネＤ,ポテトフライ"

	var sjis bytes.Buffer
	w := transform.NewWriter(&sjis, japanese.ShiftJIS.NewEncoder())
	if _, err := w.Write([]byte(text)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	tests := []struct {
		name    string
		body    string
		charset string
		want    string
	}{
		{"declared shift_jis", sjis.String(), "Shift_JIS", text},
		{"declared windows-31j", sjis.String(), "Windows-31J", text},
		{"declared utf-8", text, "UTF-8", text},
		{"no charset falls back to utf-8", text, "", text},
		{"unknown charset falls back to utf-8", text, "x-nonexistent", text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCharset(strings.NewReader(tt.body), tt.charset)
			if err != nil {
				t.Fatalf("DecodeCharset() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeCharset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeShiftJISLimitsBody(t *testing.T) {
	big := strings.Repeat("a", maxBody+1024)

	got, err := DecodeShiftJIS(strings.NewReader(big))
	if err != nil {
		t.Fatalf("DecodeShiftJIS() error: %v", err)
	}
	if len(got) != maxBody {
		t.Errorf("DecodeShiftJIS() read %d bytes, want cap at %d", len(got), maxBody)
	}
}
