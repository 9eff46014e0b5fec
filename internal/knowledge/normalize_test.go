package knowledge

import (
	"reflect"
	"testing"
)

func TestNormalizeQuestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "strips conversational stop phrases",
			text: "怎么开户",
			want: []string{"开户"},
		},
		{
			name: "multiple phrasings on separate lines",
			text: "怎么开户\n如何注册",
			want: []string{"开户", "注册"},
		},
		{
			name: "polite prefix removed",
			text: "您好，请问在哪里设置密码",
			want: []string{"，里设置密码"},
		},
		{
			name: "collapses whitespace",
			text: "重置   密码  流程",
			want: []string{"重置 密码 流程"},
		},
		{
			name: "all filler yields nil",
			text: "请问 怎么 如何",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "blank lines dropped",
			text: "\n\n开户\n\n",
			want: []string{"开户"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuestions(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeQuestions(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	if got := NormalizeQuery("怎么开户"); got != "开户" {
		t.Errorf("NormalizeQuery() = %q, want %q", got, "开户")
	}
	if got := NormalizeQuery("请问"); got != "" {
		t.Errorf("NormalizeQuery() on pure filler = %q, want empty", got)
	}
}

func TestEmbeddingDocument(t *testing.T) {
	if got := EmbeddingDocument("怎么开户\n如何注册"); got != "开户\n注册" {
		t.Errorf("EmbeddingDocument() = %q", got)
	}
	if got := EmbeddingDocument(""); got != "" {
		t.Errorf("EmbeddingDocument() on empty input = %q, want empty", got)
	}
}

func TestSplitPhrasings(t *testing.T) {
	got := SplitPhrasings(" 怎么开户 \n\n如何注册")
	want := []string{"怎么开户", "如何注册"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitPhrasings() = %v, want %v", got, want)
	}
	if SplitPhrasings("") != nil {
		t.Error("SplitPhrasings(\"\") should be nil")
	}
}
