package logic

// Navigation directions understood by MoveCursor
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionHome = "home"
	DirectionEnd  = "end"
)

// MoveCursor moves cursor one step, or to an end, within a list of n rows
func MoveCursor(cursor, n int, direction string) int {
	if n == 0 {
		return 0
	}
	switch direction {
	case DirectionUp:
		cursor--
	case DirectionDown:
		cursor++
	case DirectionHome:
		cursor = 0
	case DirectionEnd:
		cursor = n - 1
	}
	return ClampCursor(cursor, n)
}

// ClampCursor keeps cursor inside [0, n)
func ClampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
