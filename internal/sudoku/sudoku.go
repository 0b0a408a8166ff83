// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package sudoku implements the puzzle catalog of the HiSudoku platform.

It covers authoring, browsing, and favoriting of 9x9 puzzles.

Architecture:

  - Service: Orchestrates business logic (create, update, favorite toggling).
  - Repository: Abstracted interface over PostgreSQL storage.
  - Validation: Structural grid checking lives on the entity, storage-free.
*/
package sudoku

import (
	"time"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
)

// GridSize is the cell count of a standard 9x9 puzzle content string.
const GridSize = 81

// Sudoku represents one puzzle in the catalog.
type Sudoku struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// FavoriteCount is derived from the favorite table, never stored.
	FavoriteCount int `json:"favorite_count"`
}

// # Grid Validation

// blank cells may be written as '.' or '0'; both mean "empty".
func isBlankCell(c byte) bool { return c == '.' || c == '0' }

/*
ValidateContent checks that a content string is a structurally valid grid.

Description: The string is read row-major, 81 cells, each a digit 1-9 or a
blank. A placed digit must not repeat within its row, column, or 3x3 box.
Solvability is NOT checked; an unsolvable but well-formed grid is accepted.

Parameters:
  - content: string (row-major cell list)

Returns:
  - error: apperr.ValidationError naming the first violation, or nil
*/
func ValidateContent(content string) error {
	if len(content) != GridSize {
		return apperr.ValidationError("Content must be exactly 81 cells",
			apperr.FieldError{Field: "content", Message: "Expected 81 characters, one per cell"})
	}

	// Seen-digit masks per row, column, and box. Bit d is set when digit d
	// has been placed in that unit.
	var rows, cols, boxes [9]uint16

	for i := 0; i < GridSize; i++ {
		c := content[i]
		if isBlankCell(c) {
			continue
		}
		if c < '1' || c > '9' {
			return apperr.ValidationError("Content contains an invalid cell",
				apperr.FieldError{Field: "content", Message: "Cells must be digits 1-9, '.' or '0'"})
		}

		row, col := i/9, i%9
		box := (row/3)*3 + col/3
		bit := uint16(1) << (c - '1')

		if rows[row]&bit != 0 || cols[col]&bit != 0 || boxes[box]&bit != 0 {
			return apperr.ValidationError("Content violates sudoku constraints",
				apperr.FieldError{Field: "content", Message: "A digit repeats within a row, column, or box"})
		}

		rows[row] |= bit
		cols[col] |= bit
		boxes[box] |= bit
	}

	return nil
}
