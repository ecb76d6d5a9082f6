// Package grading folds subject entries into the derived figures stored on
// exam and semester records: percentage, failed subjects, GPA, arrears and
// CGPA. Everything here is pure and uses decimal arithmetic rounded to two
// places.
package grading
