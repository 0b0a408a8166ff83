// Copyright (c) 2026 HiSudoku. All rights reserved.

package sudoku

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// gridOf builds an 81-cell content string from 9 rows.
func gridOf(rows ...string) string {
	return strings.Join(rows, "")
}

/*
TestValidateContent covers structural grid validation.
*/
func TestValidateContent(t *testing.T) {
	emptyGrid := strings.Repeat(".", 81)

	validGrid := gridOf(
		"53..7....",
		"6..195...",
		".98....6.",
		"8...6...3",
		"4..8.3..1",
		"7...2...6",
		".6....28.",
		"...419..5",
		"....8..79",
	)

	tests := []struct {
		name    string
		content string
		ok      bool
	}{
		{"empty_grid", emptyGrid, true},
		{"classic_puzzle", validGrid, true},
		{"zero_as_blank", strings.Repeat("0", 81), true},
		{"mixed_blanks", strings.Repeat(".0", 40) + ".", true},
		{"too_short", strings.Repeat(".", 80), false},
		{"too_long", strings.Repeat(".", 82), false},
		{"bad_character", "x" + strings.Repeat(".", 80), false},
		{"row_duplicate", "11" + strings.Repeat(".", 79), false},
		{"column_duplicate", "1" + strings.Repeat(".", 8) + "1" + strings.Repeat(".", 71), false},
		{"box_duplicate", "1" + strings.Repeat(".", 9) + "1" + strings.Repeat(".", 70), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.content)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

/*
TestValidateContent_SameDigitDifferentUnits verifies that a digit may repeat
across the grid as long as no unit contains it twice.
*/
func TestValidateContent_SameDigitDifferentUnits(t *testing.T) {
	// 1 at (0,0) and 1 at (4,4): different row, column, and box.
	cells := []byte(strings.Repeat(".", 81))
	cells[0] = '1'
	cells[4*9+4] = '1'

	assert.NoError(t, ValidateContent(string(cells)))
}
