package linker_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"gallerylinker/internal/linker"
	"gallerylinker/internal/logging"
	"gallerylinker/internal/stash"
	"gallerylinker/internal/testsupport"
)

func defaultOptions() linker.Options {
	return linker.Options{
		MatchThreshold:    0.7,
		DateToleranceDays: 7,
		CreateMissing:     true,
		ReviewTag:         "Gallery Linker: New Performer",
		SceneStrategy:     linker.StrategyNameSimilarity,
		MaxSceneMatches:   3,
	}
}

func runPerformerLinker(t *testing.T, gw *testsupport.FakeGateway, opts linker.Options) *linker.Report {
	t.Helper()
	pass := linker.NewPerformerLinker(gw, nil, logging.NewNop(), opts)
	report, err := pass.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return report
}

func TestLinksPerformersFromLinkedScene(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Performers = []stash.Performer{
		{ID: "p1", Name: "Jane Doe"},
		{ID: "p2", Name: "John Smith"},
	}
	gw.Galleries = []stash.Gallery{{
		ID:    "g1",
		Title: "Beach Photoshoot 2024",
		Scenes: []stash.Scene{{
			ID:    "s1",
			Title: "Beach Scene",
			Performers: []stash.PerformerRef{
				{ID: "p1", Name: "Jane Doe"},
				{ID: "p2", Name: "John Smith"},
			},
		}},
	}}

	report := runPerformerLinker(t, gw, defaultOptions())

	if len(report.Linked) != 2 {
		t.Fatalf("linked = %d, want 2: %+v", len(report.Linked), report)
	}
	for _, result := range report.Linked {
		if result.Score != 1.0 {
			t.Errorf("score = %v, want 1.0", result.Score)
		}
		if result.Source != linker.SourceLinkedScene {
			t.Errorf("source = %q, want %q", result.Source, linker.SourceLinkedScene)
		}
	}
	if got := len(gw.Galleries[0].Performers); got != 2 {
		t.Fatalf("gallery performers after run = %d, want 2", got)
	}
}

func TestLinksPerformerByTitlePhrase(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Performers = []stash.Performer{{ID: "p1", Name: "Jane Doe"}}
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "Jane Doe Summer Collection"}}

	report := runPerformerLinker(t, gw, defaultOptions())

	if len(report.Linked) != 1 {
		t.Fatalf("linked = %d, want 1: %+v", len(report.Linked), report)
	}
	result := report.Linked[0]
	if result.Score != 1.0 {
		t.Errorf("score = %v, want 1.0", result.Score)
	}
	if result.Source != linker.SourceNameMatch {
		t.Errorf("source = %q, want %q", result.Source, linker.SourceNameMatch)
	}
	if result.PerformerID != "p1" {
		t.Errorf("performer id = %q, want p1", result.PerformerID)
	}
}

func TestLinksPerformerByPathSegment(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Performers = []stash.Performer{{ID: "p1", Name: "Jane Doe"}}
	gw.Galleries = []stash.Gallery{{
		ID:    "g1",
		Files: []stash.File{{Path: "/media/storage/Jane_Doe/beach-set/image001.jpg"}},
	}}

	report := runPerformerLinker(t, gw, defaultOptions())

	if len(report.Linked) != 1 {
		t.Fatalf("linked = %d, want 1: %+v", len(report.Linked), report)
	}
	if got := report.Linked[0].Source; got != linker.SourceNameMatch {
		t.Errorf("source = %q, want %q", got, linker.SourceNameMatch)
	}
}

func TestCreatesMissingPerformerWithReviewTag(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "Emily Rose Vacation Photos"}}

	report := runPerformerLinker(t, gw, defaultOptions())

	if len(report.Created) != 1 {
		t.Fatalf("created = %d, want 1: %+v", len(report.Created), report)
	}
	created := report.Created[0]
	if created.PerformerName != "Emily Rose" {
		t.Errorf("performer name = %q, want %q", created.PerformerName, "Emily Rose")
	}
	if created.Source != linker.SourceNameMatchNew {
		t.Errorf("source = %q, want %q", created.Source, linker.SourceNameMatchNew)
	}

	if len(gw.Performers) != 1 {
		t.Fatalf("performers in store = %d, want 1", len(gw.Performers))
	}
	performer := gw.Performers[0]
	if len(performer.Tags) != 1 || performer.Tags[0].Name != "Gallery Linker: New Performer" {
		t.Fatalf("review tag missing on created performer: %+v", performer.Tags)
	}
	if len(gw.Galleries[0].Performers) != 1 {
		t.Fatalf("created performer not linked to gallery")
	}
}

func TestSkipsCreationWhenDisabled(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "Emily Rose Vacation Photos"}}

	opts := defaultOptions()
	opts.CreateMissing = false
	report := runPerformerLinker(t, gw, opts)

	if len(report.Created) != 0 || len(report.Linked) != 0 {
		t.Fatalf("unexpected links: %+v", report)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(report.Skipped))
	}
	if got := report.Skipped[0].Reason; got != "performer not found, creation disabled" {
		t.Errorf("reason = %q", got)
	}
	if len(gw.Performers) != 0 {
		t.Fatalf("performer was created despite create_missing=false")
	}
}

func TestSecondRunIsIdempotent(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Performers = []stash.Performer{{ID: "p1", Name: "Jane Doe"}}
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "Jane Doe Summer Collection"}}

	first := runPerformerLinker(t, gw, defaultOptions())
	if len(first.Linked) != 1 {
		t.Fatalf("first run linked = %d, want 1", len(first.Linked))
	}

	second := runPerformerLinker(t, gw, defaultOptions())
	if len(second.Linked) != 0 || len(second.Created) != 0 {
		t.Fatalf("second run made links: %+v", second)
	}
	if len(second.Skipped) != 1 {
		t.Fatalf("second run skipped = %d, want 1", len(second.Skipped))
	}
	if got := second.Skipped[0].Reason; got != "all matched performers already linked" {
		t.Errorf("reason = %q", got)
	}
}

func TestCreatedPerformerSurvivesRepeatRuns(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "Emily Rose Vacation Photos"}}

	first := runPerformerLinker(t, gw, defaultOptions())
	if len(first.Created) != 1 {
		t.Fatalf("first run created = %d, want 1", len(first.Created))
	}

	second := runPerformerLinker(t, gw, defaultOptions())
	if len(second.Created) != 0 {
		t.Fatalf("second run created again: %+v", second.Created)
	}
	if len(gw.Performers) != 1 {
		t.Fatalf("performers in store = %d, want 1", len(gw.Performers))
	}
}

func TestCreateCollisionIsRecordedAsError(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "Emily Rose Vacation Photos"}}
	gw.CreateConflict = true

	report := runPerformerLinker(t, gw, defaultOptions())

	if len(report.Created) != 0 || len(report.Linked) != 0 {
		t.Fatalf("collision reported as a link: %+v", report)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("errors = %d, want 1: %+v", len(report.Errors), report)
	}
	failed := report.Errors[0]
	if failed.PerformerName != "Emily Rose" {
		t.Errorf("performer name = %q, want %q", failed.PerformerName, "Emily Rose")
	}
	if !strings.Contains(failed.Reason, "already exists") {
		t.Errorf("reason = %q, want collision message", failed.Reason)
	}

	// The record the concurrent writer left behind links on the next pass.
	gw.CreateConflict = false
	second := runPerformerLinker(t, gw, defaultOptions())
	if len(second.Linked) != 1 {
		t.Fatalf("second run linked = %d, want 1: %+v", len(second.Linked), second)
	}
	if got := second.Linked[0].Source; got != linker.SourceNameMatch {
		t.Errorf("source = %q, want %q", got, linker.SourceNameMatch)
	}
}

func TestLinkWriteFailureDoesNotAbortPass(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Performers = []stash.Performer{
		{ID: "p1", Name: "Jane Doe"},
		{ID: "p2", Name: "John Smith"},
	}
	gw.Galleries = []stash.Gallery{
		{ID: "g1", Title: "Jane Doe Summer Collection"},
		{ID: "g2", Title: "John Smith Studio Session"},
	}
	gw.WriteErr = errors.New("update gallery: stash unavailable")
	gw.WriteErrGallery = "g1"

	report := runPerformerLinker(t, gw, defaultOptions())

	if got := report.Summary().Processed; got != 2 {
		t.Fatalf("processed = %d, want 2", got)
	}
	if len(report.Errors) != 1 || report.Errors[0].GalleryID != "g1" {
		t.Fatalf("errors = %+v, want the failed gallery", report.Errors)
	}
	if len(report.Linked) != 1 || report.Linked[0].GalleryID != "g2" {
		t.Fatalf("linked = %+v, want the later gallery", report.Linked)
	}
	if len(gw.Galleries[1].Performers) != 1 {
		t.Fatalf("later gallery was not written")
	}
}

func TestRunsAreDeterministic(t *testing.T) {
	build := func() *testsupport.FakeGateway {
		gw := testsupport.NewFakeGateway()
		gw.Performers = []stash.Performer{
			{ID: "p1", Name: "Jane Doe"},
			{ID: "p2", Name: "John Smith"},
			{ID: "p3", Name: "Anna Lee", Aliases: []string{"Annie Lee"}},
		}
		gw.Galleries = []stash.Gallery{
			{ID: "g1", Title: "Jane Doe Summer Collection"},
			{ID: "g2", Title: "John Smith And Anna Lee"},
			{ID: "g3", Title: "Unrelated Landscape Shots"},
		}
		return gw
	}

	first := runPerformerLinker(t, build(), defaultOptions())
	second := runPerformerLinker(t, build(), defaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reports differ:\n%+v\n%+v", first, second)
	}
}

func TestThresholdBoundaryIsClosed(t *testing.T) {
	// "anna lee storm" vs "Anna Lee Rivers" shares 2 of 4 distinct tokens,
	// a 0.5 overlap with no phrase containment on either side.
	gw := testsupport.NewFakeGateway()
	gw.Performers = []stash.Performer{{ID: "p1", Name: "Anna Lee Rivers"}}
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "Anna Lee Storm"}}

	opts := defaultOptions()
	opts.CreateMissing = false
	opts.MatchThreshold = 0.5
	report := runPerformerLinker(t, gw, opts)
	if len(report.Linked) != 1 {
		t.Fatalf("score at threshold not accepted: %+v", report)
	}
	if got := report.Linked[0].Score; got != 0.5 {
		t.Errorf("score = %v, want 0.5", got)
	}

	gw = testsupport.NewFakeGateway()
	gw.Performers = []stash.Performer{{ID: "p1", Name: "Anna Lee Rivers"}}
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "Anna Lee Storm"}}
	opts.MatchThreshold = 0.51
	report = runPerformerLinker(t, gw, opts)
	if len(report.Linked) != 0 {
		t.Fatalf("score below threshold accepted: %+v", report.Linked)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("rejection recorded as error: %+v", report.Errors)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("rejection did not produce a skip: %+v", report)
	}
}

func TestSceneSourceWinsScoreTie(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Performers = []stash.Performer{{ID: "p1", Name: "Jane Doe"}}
	gw.Galleries = []stash.Gallery{{
		ID:    "g1",
		Title: "Jane Doe",
		Scenes: []stash.Scene{{
			ID:         "s1",
			Performers: []stash.PerformerRef{{ID: "p1", Name: "Jane Doe"}},
		}},
	}}

	report := runPerformerLinker(t, gw, defaultOptions())

	if len(report.Linked) != 1 {
		t.Fatalf("linked = %d, want exactly 1", len(report.Linked))
	}
	if got := report.Linked[0].Source; got != linker.SourceLinkedScene {
		t.Errorf("source = %q, want %q", got, linker.SourceLinkedScene)
	}
}

func TestDryRunMakesNoWrites(t *testing.T) {
	build := func() *testsupport.FakeGateway {
		gw := testsupport.NewFakeGateway()
		gw.Performers = []stash.Performer{{ID: "p1", Name: "Jane Doe"}}
		gw.Galleries = []stash.Gallery{
			{ID: "g1", Title: "Jane Doe Summer Collection"},
			{ID: "g2", Title: "Emily Rose Vacation Photos"},
			{ID: "g3", Title: "12345"},
		}
		return gw
	}

	dryGW := build()
	opts := defaultOptions()
	opts.DryRun = true
	dry := runPerformerLinker(t, dryGW, opts)
	if dryGW.Writes != 0 {
		t.Fatalf("dry run issued %d writes", dryGW.Writes)
	}

	liveGW := build()
	live := runPerformerLinker(t, liveGW, defaultOptions())

	if dry.Summary().Linked != live.Summary().Linked ||
		dry.Summary().Created != live.Summary().Created ||
		dry.Summary().Skipped != live.Summary().Skipped ||
		dry.Summary().Errors != live.Summary().Errors {
		t.Fatalf("bucket counts diverge: dry %+v live %+v", dry.Summary(), live.Summary())
	}
	for i := range dry.Linked {
		if !dry.Linked[i].DryRun {
			t.Errorf("dry-run result missing flag: %+v", dry.Linked[i])
		}
		if dry.Linked[i].PerformerName != live.Linked[i].PerformerName ||
			dry.Linked[i].Score != live.Linked[i].Score ||
			dry.Linked[i].Source != live.Linked[i].Source {
			t.Errorf("linked result diverges: dry %+v live %+v", dry.Linked[i], live.Linked[i])
		}
	}
	for i := range dry.Created {
		if dry.Created[i].PerformerName != live.Created[i].PerformerName {
			t.Errorf("created result diverges: dry %+v live %+v", dry.Created[i], live.Created[i])
		}
	}
}

func TestFetchFailureAbortsBeforeFirstGallery(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Err = context.DeadlineExceeded

	pass := linker.NewPerformerLinker(gw, nil, logging.NewNop(), defaultOptions())
	if _, err := pass.Run(context.Background()); err == nil {
		t.Fatal("expected error from failed fetch")
	}
}

func TestGalleryWithoutSignalIsSkipped(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.Galleries = []stash.Gallery{{ID: "g1", Title: "2024-01-05"}}

	report := runPerformerLinker(t, gw, defaultOptions())

	if len(report.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1: %+v", len(report.Skipped), report)
	}
	if got := report.Skipped[0].Reason; got != "no new performers found to link" {
		t.Errorf("reason = %q", got)
	}
}
