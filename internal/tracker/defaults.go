package tracker

import "github.com/tally-dev/tally/internal/model"

// DefaultCategories returns the categories a fresh tracker starts with.
func DefaultCategories() []model.Category {
	return []model.Category{
		{ID: "1", Name: "Food & Dining", Color: "#FF6B6B", Icon: "🍕"},
		{ID: "2", Name: "Transportation", Color: "#4ECDC4", Icon: "🚗"},
		{ID: "3", Name: "Shopping", Color: "#45B7D1", Icon: "🛍️"},
		{ID: "4", Name: "Entertainment", Color: "#96CEB4", Icon: "🎬"},
		{ID: "5", Name: "Bills & Utilities", Color: "#FECA57", Icon: "💡"},
		{ID: "6", Name: "Health & Fitness", Color: "#FF9FF3", Icon: "💊"},
		{ID: "7", Name: "Salary", Color: "#54A0FF", Icon: "💰"},
		{ID: "8", Name: "Business", Color: "#5F27CD", Icon: "💼"},
	}
}
