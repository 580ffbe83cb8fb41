package security

import (
	"reflect"
	"testing"
)

func TestTextSanitizer_SanitizeText(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "プレーンテキストはそのまま", input: "新商品の紹介です", want: "新商品の紹介です"},
		{name: "script タグは中身ごと除去", input: `こんにちは<script>alert(1)</script>`, want: "こんにちは"},
		{name: "img タグは除去", input: `<img src=x onerror=alert(1)>caption`, want: "caption"},
		{name: "前後の空白は除去", input: "  spaced  ", want: "spaced"},
		{name: "a タグはテキストのみ残す", input: `<a href="https://evil.example">click</a>`, want: "click"},
		{name: "空入力は空のまま", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SanitizeText(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_SanitizeList(t *testing.T) {
	s := NewTextSanitizer()

	got := s.SanitizeList([]string{"#launch", "<script>x</script>", "  #sale  ", "<b></b>"})
	want := []string{"#launch", "#sale"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeList = %v, want %v", got, want)
	}

	if s.SanitizeList(nil) != nil {
		t.Error("nil 入力は nil を返すべき")
	}
}
