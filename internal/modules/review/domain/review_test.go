package domain

import (
	"testing"
	"time"
)

func TestNewReview(t *testing.T) {
	now := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	rating := 4

	r := NewReview("  Widget ", &rating, "\tworks great\n", now)

	if r.Product != "Widget" {
		t.Errorf("Product = %q, want Widget", r.Product)
	}
	if r.Text != "works great" {
		t.Errorf("Text = %q, want %q", r.Text, "works great")
	}
	if r.Rating == nil || *r.Rating != 4 {
		t.Errorf("Rating = %v, want 4", r.Rating)
	}
	if !r.CreatedAt.Equal(now) || !r.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v, %v", r.CreatedAt, r.UpdatedAt)
	}
	if r.IsAnalyzed() {
		t.Error("new review should not be analyzed")
	}

	r.AnalyzedAt = &now
	if !r.IsAnalyzed() {
		t.Error("IsAnalyzed() = false after setting AnalyzedAt")
	}
}
