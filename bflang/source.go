package bflang

import "strings"

type Source struct {
	Name    string
	Content string
	Lines   []string
}

func NewSource(name string, content string) *Source {
	return &Source{
		Name:    name,
		Content: content,
		Lines:   strings.Split(content, "\n"),
	}
}

type Pos struct {
	Source *Source
	Line   int
	Column int
}

// Token is one command character with its position. Everything else in
// the source is comment text and never tokenized.
type Token struct {
	Ch  byte
	Pos Pos
}

func isCommand(r rune) bool {
	switch r {
	case '>', '<', '+', '-', '.', ',', '[', ']':
		return true
	}
	return false
}

// Filter scans the source and keeps the command characters, tracking
// line and column across the comment text in between.
func Filter(src *Source) []Token {
	var tokens []Token
	pos := Pos{
		Source: src,
		Line:   1,
		Column: 1,
	}
	for _, r := range src.Content {
		if isCommand(r) {
			tokens = append(tokens, Token{
				Ch:  byte(r),
				Pos: pos,
			})
		}
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return tokens
}
