package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// GetDisplayWidth calculates the display width of a string, accounting for wide runes and emoji
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// FitWidth truncates or pads text to exactly width display cells
func FitWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

// CenterText centers text within the given display width
func CenterText(text string, width int) string {
	textWidth := runewidth.StringWidth(text)
	if textWidth >= width {
		return runewidth.Truncate(text, width, "")
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-padding-textWidth)
}

// WrapText wraps text on word boundaries so that no line exceeds width display cells
func WrapText(text string, width int) []string {
	if text == "" || width <= 0 {
		return []string{}
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		if runewidth.StringWidth(word) > width {
			word = runewidth.Truncate(word, width, "…")
		}
		if currentLine == "" {
			currentLine = word
		} else if runewidth.StringWidth(currentLine)+1+runewidth.StringWidth(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return lines
}
