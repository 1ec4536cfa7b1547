// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

func TestHaversine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want, tolerance        float64
	}{
		{name: "one degree of longitude at the equator", lat2: 0, lon2: 1, want: 111.19, tolerance: 0.01},
		{name: "same point", lat1: 45, lon1: -122, lat2: 45, lon2: -122, want: 0, tolerance: epsilon},
		{name: "antipodes", lat1: 0, lon1: 0, lat2: 0, lon2: 180, want: math.Pi * EarthRadiusKM, tolerance: 1e-6},
		{name: "symmetric", lat1: 1, lon1: 0, lat2: 0, lon2: 0, want: 111.19, tolerance: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Haversine() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestContentScore(t *testing.T) {
	t.Parallel()

	located := newFakeSession(models.Affinity{CategoryID: "catA", OverallScore: 0.8})
	located.profile = &models.Profile{ID: "user-1", Latitude: floatPtr(0), Longitude: floatPtr(0)}

	tests := []struct {
		name string
		sess *fakeSession
		item models.CatalogItem
		want float64
	}{
		{
			name: "category and fresh item",
			sess: newFakeSession(models.Affinity{CategoryID: "catA", OverallScore: 0.8}),
			item: models.CatalogItem{CategoryID: "catA", CreatedAt: timePtr(testNow)},
			want: 0.6,
		},
		{
			name: "unknown category scores recency only",
			sess: newFakeSession(models.Affinity{CategoryID: "catA", OverallScore: 0.8}),
			item: models.CatalogItem{CategoryID: "catZ", CreatedAt: timePtr(testNow.AddDate(0, 0, -30))},
			want: math.Exp(-1) * 0.2,
		},
		{
			name: "nothing applies",
			sess: newFakeSession(),
			item: models.CatalogItem{},
			want: 0,
		},
		{
			name: "co-located item",
			sess: located,
			item: models.CatalogItem{CategoryID: "catA", Latitude: floatPtr(0), Longitude: floatPtr(0)},
			want: 0.4 + 0.3,
		},
		{
			name: "item half a degree away",
			sess: located,
			item: models.CatalogItem{Latitude: floatPtr(0), Longitude: floatPtr(0.5)},
			want: (1 - Haversine(0, 0, 0, 0.5)/100) * 0.3,
		},
		{
			name: "item one degree away is past the falloff",
			sess: located,
			item: models.CatalogItem{Latitude: floatPtr(0), Longitude: floatPtr(1)},
			want: 0,
		},
		{
			name: "item beyond range",
			sess: located,
			item: models.CatalogItem{Latitude: floatPtr(10), Longitude: floatPtr(10)},
			want: 0,
		},
		{
			name: "user without location ignores item coordinates",
			sess: newFakeSession(),
			item: models.CatalogItem{Latitude: floatPtr(0), Longitude: floatPtr(0)},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			item := tt.item
			if got := ContentScore(tt.sess, &item, testNow); math.Abs(got-tt.want) > epsilon {
				t.Errorf("ContentScore() = %v, want %v", got, tt.want)
			}
		})
	}
}
