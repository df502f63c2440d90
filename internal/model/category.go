package model

// Category is a spending or income bucket. Keywords drive the keyword tier
// of classification; IsIncome selects the sign-based default.
type Category struct {
	Name     string
	Keywords []string
	ID       int
	IsIncome bool
}
