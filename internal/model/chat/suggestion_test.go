package chat

import "testing"

func TestCategoryIconIsTotal(t *testing.T) {
	cases := map[Category]string{
		CategoryDeadline: "⏰",
		CategoryAmount:   "💰",
		CategoryMethod:   "📋",
		CategoryGeneral:  "💡",
	}
	for category, want := range cases {
		if got := category.Icon(); got != want {
			t.Fatalf("icon for %s: got %q want %q", category, got, want)
		}
	}
}

func TestUnknownCategoryFallsBack(t *testing.T) {
	if got := Category("budget").Icon(); got != "💡" {
		t.Fatalf("unknown category must fall back to the general glyph, got %q", got)
	}
}
