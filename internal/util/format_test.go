package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"exact kilobyte", 1024, "1 KB"},
		{"fractional kilobyte", 1536, "1.5 KB"},
		{"megabytes", 5 * 1024 * 1024, "5 MB"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3 GB"},
		{"beyond gigabytes stays in GB", 2048 * 1024 * 1024 * 1024, "2048 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFileSize(tt.bytes))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1.5K", FormatNumber(1500))
	assert.Equal(t, "2.0M", FormatNumber(2000000))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abc...", TruncateText("abcdef", 3))
	assert.Equal(t, "你好...", TruncateText("你好世界", 2))
	assert.Equal(t, "", TruncateText("", 5))
}

func TestFitWidth(t *testing.T) {
	assert.Equal(t, "ab   ", FitWidth("ab", 5))
	assert.Equal(t, 5, GetDisplayWidth(FitWidth("abcdefgh", 5)))
	assert.Equal(t, 6, GetDisplayWidth(FitWidth("你好世界", 6)))
	assert.Equal(t, "a b ", FitWidth("a\nb", 4))
	assert.Equal(t, "", FitWidth("abc", 0))
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "  ab  ", CenterText("ab", 6))
	assert.Equal(t, "abc", CenterText("abcdef", 3))
}

func TestWrapText(t *testing.T) {
	assert.Empty(t, WrapText("", 10))
	assert.Equal(t, []string{"hello", "world"}, WrapText("hello world", 7))
	assert.Equal(t, []string{"hello world"}, WrapText("hello world", 20))
	for _, line := range WrapText("a verylongwordthatexceeds the width", 8) {
		assert.LessOrEqual(t, GetDisplayWidth(line), 8)
	}
}
