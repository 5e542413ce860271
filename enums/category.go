package enums

// Category is a topical label inferred for a creator's posts.
type Category string

const (
	CategoryCareer          Category = "Career"
	CategoryProgramming     Category = "Programming"
	CategoryMachineLearning Category = "Machine Learning"
	CategoryDataAnalysis    Category = "Data Analysis"
	CategoryResearch        Category = "Research"
	CategoryDiscussion      Category = "Discussion"
)
