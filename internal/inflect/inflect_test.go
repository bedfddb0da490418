package inflect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnglish_Singular(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"users", "user"},
		{"Users", "User"},
		{"categories", "category"},
		{"CATEGORIES", "CATEGORY"},
		{"addresses", "address"},
		{"classes", "class"},
		{"boxes", "box"},
		{"branches", "branch"},
		{"people", "person"},
		{"People", "Person"},
		{"children", "child"},
		{"status", "status"},
		{"bus", "bus"},
		{"analysis", "analysis"},
		{"data", "data"},
		{"s", "s"},
		{"", ""},
		{"user", "user"},
		{"order_items", "order_item"},
		{"OrderItems", "OrderItem"},
		{"line-items", "line-item"},
		{"home_addresses", "home_address"},
		{"items_", "items_"},
		{"movies", "movie"},
		{"statuses", "status"},
		{"buses", "bus"},
		{"heroes", "hero"},
		{"quizzes", "quiz"},
		{"analyses", "analysis"},
		{"geese", "goose"},
		{"teeth", "tooth"},
		{"media", "media"},
		{"user_metadata", "user_metadata"},
		{"series", "series"},
	}

	e := NewEnglish(nil)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Singular(tt.input))
		})
	}
}

func TestEnglish_ExtraIrregulars(t *testing.T) {
	e := NewEnglish(map[string]string{"Cacti": "cactus", "data": "datum"})

	assert.Equal(t, "cactus", e.Singular("cacti"))
	assert.Equal(t, "Cactus", e.Singular("Cacti"))
	assert.Equal(t, "datum", e.Singular("data"))
	assert.Equal(t, "user", e.Singular("users"))
}

func TestSingularizerFunc(t *testing.T) {
	var s Singularizer = SingularizerFunc(func(name string) string {
		return strings.TrimSuffix(name, "List")
	})

	assert.Equal(t, "item", s.Singular("itemList"))
	assert.Equal(t, "things", Identity.Singular("things"))
}
