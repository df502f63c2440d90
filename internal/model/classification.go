package model

// ClassificationMethod indicates which tier produced a category.
type ClassificationMethod string

// Classification method constants, in decreasing confidence order.
const (
	MethodExternalHint  ClassificationMethod = "external-hint"
	MethodMerchantCache ClassificationMethod = "merchant-cache"
	MethodKeyword       ClassificationMethod = "keyword"
	MethodDefault       ClassificationMethod = "default"
)

// Classification is the result of categorizing one transaction.
type Classification struct {
	Method     ClassificationMethod
	Confidence float64
	CategoryID int
}
