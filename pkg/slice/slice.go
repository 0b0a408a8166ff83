// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package slice compliments the standard [slices] package by providing functional
programming utilities leveraging generics.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}
