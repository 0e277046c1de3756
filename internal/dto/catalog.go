package dto

// CatalogSearchQuery captures the course search parameters.
type CatalogSearchQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
