package model

import "strings"

// Similarity returns how close two texts are, from 0.0 (nothing in common)
// to 1.0 (identical). Comparison ignores letter case and counts Unicode code
// points, so the score is the share of the longer text that survives the
// Levenshtein edit into the shorter one. Two empty texts score 1.0.
//
// When both texts have the same length, a is treated as the longer one. The
// edit distance is symmetric, so the choice never changes the score.
func Similarity(a, b string) float64 {
	longer, shorter := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}

	if len(longer) == 0 {
		return 1.0
	}

	distance := levenshtein(longer, shorter)
	return float64(len(longer)-distance) / float64(len(longer))
}

// EditDistance returns the case-insensitive Levenshtein distance between a and b
func EditDistance(a, b string) int {
	return levenshtein([]rune(strings.ToLower(a)), []rune(strings.ToLower(b)))
}

// levenshtein fills the full (len(shorter)+1) x (len(longer)+1) table. Cost is
// O(len(longer)*len(shorter)) in time and memory, fine for issue titles and
// descriptions.
func levenshtein(longer, shorter []rune) int {
	rows, cols := len(shorter)+1, len(longer)+1

	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
		table[i][0] = i
	}
	for j := 0; j < cols; j++ {
		table[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if shorter[i-1] == longer[j-1] {
				cost = 0
			}
			table[i][j] = min(
				table[i-1][j-1]+cost,
				table[i][j-1]+1,
				table[i-1][j]+1,
			)
		}
	}

	return table[rows-1][cols-1]
}
