package game

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// PromptMatch scores how close a guessed prompt is to the target prompt
// in [0, 1], blending word-level accuracy with a character-level edit
// similarity so that near-miss wordings still earn partial credit.
func PromptMatch(guess, target string) float64 {
	guess = normalizePrompt(guess)
	target = normalizePrompt(target)
	if target == "" {
		return 0
	}
	if guess == target {
		return 1
	}

	wordScore := 1 - wordErrorRate(strings.Fields(guess), strings.Fields(target))
	if wordScore < 0 {
		wordScore = 0
	}

	charDist := float64(levenshtein.Distance(guess, target))
	maxLen := float64(len(guess))
	if float64(len(target)) > maxLen {
		maxLen = float64(len(target))
	}
	charScore := 0.0
	if maxLen > 0 {
		charScore = 1 - charDist/maxLen
	}

	return 0.5*wordScore + 0.5*charScore
}

func normalizePrompt(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// wordErrorRate is the word-level edit distance between hypothesis and
// reference, normalized by the reference length. Each distinct word is
// assigned a private-use rune so the word sequences can be fed to the
// same edit-distance routine the character score uses.
func wordErrorRate(hypothesis, reference []string) float64 {
	if len(reference) == 0 {
		if len(hypothesis) == 0 {
			return 0
		}
		return 1
	}

	codes := make(map[string]rune, len(hypothesis)+len(reference))
	dist := levenshtein.Distance(encodeWords(hypothesis, codes), encodeWords(reference, codes))
	return float64(dist) / float64(len(reference))
}

func encodeWords(words []string, codes map[string]rune) string {
	var b strings.Builder
	for _, w := range words {
		r, ok := codes[w]
		if !ok {
			r = rune(0xE000 + len(codes))
			codes[w] = r
		}
		b.WriteRune(r)
	}
	return b.String()
}
