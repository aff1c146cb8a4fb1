package query

import (
	"errors"
	"testing"
	"time"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
	"github.com/mr1hm/go-disaster-reports/internal/models"
	"github.com/mr1hm/go-disaster-reports/internal/store"
)

var saoPaulo = geo.Coordinate{Latitude: -23.5505, Longitude: -46.6333}

func report(id string, dt models.DisasterType, ts time.Time, loc geo.Coordinate) models.Report {
	return models.Report{ID: id, Type: dt, Timestamp: ts, Location: loc, Description: id}
}

func ids(reports []models.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestByType_FloodFireFlood(t *testing.T) {
	s, err := store.New(saoPaulo, 10)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	now := time.Now()
	for _, r := range []models.Report{
		report("first", models.DisasterTypeFlood, now, saoPaulo),
		report("second", models.DisasterTypeFire, now, saoPaulo),
		report("third", models.DisasterTypeFlood, now, saoPaulo),
	} {
		if err := s.Admit(r); err != nil {
			t.Fatalf("Admit failed: %v", err)
		}
	}

	got := ids(ByType(s.All(), models.DisasterTypeFlood))
	if want := []string{"first", "third"}; !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestByType_PartitionsReports(t *testing.T) {
	now := time.Now()
	reports := []models.Report{
		report("a", models.DisasterTypeFlood, now, saoPaulo),
		report("b", models.DisasterTypeEarthquake, now, saoPaulo),
		report("c", models.DisasterTypeOther, now, saoPaulo),
		report("d", models.DisasterTypeTsunami, now, saoPaulo),
		report("e", models.DisasterTypeFlood, now, saoPaulo),
		report("f", models.DisasterTypeLandslide, now, saoPaulo),
		report("g", models.DisasterTypeFire, now, saoPaulo),
	}

	seen := make(map[string]int)
	total := 0
	for _, dt := range models.DisasterTypes() {
		for _, r := range ByType(reports, dt) {
			seen[r.ID]++
			total++
		}
	}

	if total != len(reports) {
		t.Errorf("expected %d reports across all buckets, got %d", len(reports), total)
	}
	for _, r := range reports {
		if seen[r.ID] != 1 {
			t.Errorf("report %s appears in %d buckets", r.ID, seen[r.ID])
		}
	}
}

func TestByType_UnknownTextMatchesOnlyOther(t *testing.T) {
	now := time.Now()
	reports := []models.Report{
		report("flood", models.DisasterTypeFlood, now, saoPaulo),
		report("other", models.DisasterTypeOther, now, saoPaulo),
	}

	got := ids(ByType(reports, models.ParseDisasterType("hurricane")))
	if want := []string{"other"}; !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestByType_EmptyResult(t *testing.T) {
	got := ByType(nil, models.DisasterTypeFire)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestByTimeRange_SameDayLiteralSemantics(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	reports := []models.Report{
		report("midnight", models.DisasterTypeFlood, day, saoPaulo),
		report("late", models.DisasterTypeFlood, day.Add(23*time.Hour+59*time.Minute), saoPaulo),
	}

	r, err := ParseDateRange("10/03/2024", "10/03/2024", false)
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}

	got := ids(ByTimeRange(reports, r.Start, r.End))
	if want := []string{"midnight"}; !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestByTimeRange_WholeEndDay(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	reports := []models.Report{
		report("midnight", models.DisasterTypeFlood, day, saoPaulo),
		report("late", models.DisasterTypeFlood, day.Add(23*time.Hour+59*time.Minute), saoPaulo),
		report("next", models.DisasterTypeFlood, day.AddDate(0, 0, 1), saoPaulo),
	}

	r, err := ParseDateRange("10/03/2024", "10/03/2024", true)
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}

	got := ids(ByTimeRange(reports, r.Start, r.End))
	if want := []string{"midnight", "late"}; !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestByTimeRange_InclusiveBounds(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)
	reports := []models.Report{
		report("before", models.DisasterTypeFire, start.Add(-time.Second), saoPaulo),
		report("start", models.DisasterTypeFire, start, saoPaulo),
		report("middle", models.DisasterTypeFire, start.AddDate(0, 0, 10), saoPaulo),
		report("end", models.DisasterTypeFire, end, saoPaulo),
		report("after", models.DisasterTypeFire, end.Add(time.Second), saoPaulo),
	}

	got := ids(ByTimeRange(reports, start, end))
	if want := []string{"start", "middle", "end"}; !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := ByTimeRange(reports, end, start); len(got) != 0 {
		t.Errorf("expected inverted range to match nothing, got %v", ids(got))
	}
}

func TestByProximity(t *testing.T) {
	now := time.Now()
	near := geo.Coordinate{Latitude: -23.5605, Longitude: -46.6333}
	far := geo.Coordinate{Latitude: -23.6505, Longitude: -46.6333}
	reports := []models.Report{
		report("center", models.DisasterTypeFlood, now, saoPaulo),
		report("far", models.DisasterTypeFire, now, far),
		report("near", models.DisasterTypeFire, now, near),
	}

	matches := ByProximity(reports, saoPaulo, 2)
	if got, want := ids(Reports(matches)), []string{"center", "near"}; !equalIDs(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if matches[0].DistanceKm != 0 {
		t.Errorf("expected distance 0 for center, got %v", matches[0].DistanceKm)
	}
	if d := matches[1].DistanceKm; d < 1.0 || d > 1.2 {
		t.Errorf("expected ~1.1 km for near, got %v", d)
	}

	if got := ByProximity(reports, saoPaulo, 20000); len(got) != 3 {
		t.Errorf("expected every report within 20000 km, got %d", len(got))
	}
}

func TestByProximity_ZeroDistanceOnlyExactLocation(t *testing.T) {
	now := time.Now()
	reports := []models.Report{
		report("exact", models.DisasterTypeFlood, now, saoPaulo),
		report("close", models.DisasterTypeFlood, now, geo.Coordinate{Latitude: -23.5505001, Longitude: -46.6333}),
		report("exact-again", models.DisasterTypeOther, now, saoPaulo),
	}

	got := ids(Reports(ByProximity(reports, saoPaulo, 0)))
	if want := []string{"exact", "exact-again"}; !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestApply_Composes(t *testing.T) {
	day := time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local)
	far := geo.Coordinate{Latitude: -23.6505, Longitude: -46.6333}
	reports := []models.Report{
		report("flood-old", models.DisasterTypeFlood, day.AddDate(0, -1, 0), saoPaulo),
		report("flood-center", models.DisasterTypeFlood, day, saoPaulo),
		report("fire-center", models.DisasterTypeFire, day, saoPaulo),
		report("flood-far", models.DisasterTypeFlood, day, far),
	}

	flood := models.DisasterTypeFlood
	r, err := ParseDateRange("01/05/2024", "03/05/2024", false)
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}

	matches := Apply(reports, Filter{
		Type:  &flood,
		Range: &r,
		Near:  &Proximity{Reference: saoPaulo, MaxKm: 5},
	})
	if got, want := ids(Reports(matches)), []string{"flood-center"}; !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if all := Apply(reports, Filter{}); len(all) != len(reports) {
		t.Errorf("expected empty filter to keep all %d reports, got %d", len(reports), len(all))
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("05/11/2023")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	want := time.Date(2023, 11, 5, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got, err := ParseDate(" 5/1/2023 "); err != nil || !got.Equal(time.Date(2023, 1, 5, 0, 0, 0, 0, time.Local)) {
		t.Errorf("expected single digit fields to parse, got %v, %v", got, err)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "2024-03-10", "10/03", "aa/bb/cccc", "10/13/2024", "0/03/2024", "32/01/2024", "10/03/2024/1"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("ParseDate(%q): expected ErrInvalidDateFormat, got %v", in, err)
		}
	}
}

func TestParseDateRange_Invalid(t *testing.T) {
	if _, err := ParseDateRange("bad", "10/03/2024", false); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat for start, got %v", err)
	}
	if _, err := ParseDateRange("10/03/2024", "bad", false); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat for end, got %v", err)
	}
}
