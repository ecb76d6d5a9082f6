package grading

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var semesterLabelPattern = regexp.MustCompile(`(?i)^\s*sem(?:ester)?\s*(\d+)\s*$`)

// SemesterLabel formats the canonical label for semester n.
func SemesterLabel(n int) string {
	return fmt.Sprintf("Sem %d", n)
}

// ParseSemesterNumber extracts N from labels such as "Sem 3", "sem3" or
// "Semester 3".
func ParseSemesterNumber(label string) (int, bool) {
	m := semesterLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// CanonicalSemesterLabel rewrites numbered labels to "Sem N". Free-form
// labels are only trimmed.
func CanonicalSemesterLabel(label string) string {
	if n, ok := ParseSemesterNumber(label); ok {
		return SemesterLabel(n)
	}
	return strings.TrimSpace(label)
}

// NextSemesterLabel returns "Sem N" for the lowest N >= 1 not already taken,
// so gaps left by deletions are filled before appending.
func NextSemesterLabel(existing []string) string {
	taken := make([]int, 0, len(existing))
	for _, label := range existing {
		if n, ok := ParseSemesterNumber(label); ok {
			taken = append(taken, n)
		}
	}
	return SemesterLabel(lowestFree(taken))
}

// NextExamNumber returns the lowest exam number >= 1 not already taken.
func NextExamNumber(existing []int) int {
	return lowestFree(existing)
}

func lowestFree(taken []int) int {
	seen := make(map[int]struct{}, len(taken))
	for _, n := range taken {
		seen[n] = struct{}{}
	}
	n := 1
	for {
		if _, ok := seen[n]; !ok {
			return n
		}
		n++
	}
}
