package parser_test

import (
	"context"
	"testing"
	"time"

	"github.com/firehallhq/cadintel/internal/bayes"
	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/extractor"
	"github.com/firehallhq/cadintel/internal/logger"
	"github.com/firehallhq/cadintel/internal/parser"
	"github.com/firehallhq/cadintel/internal/pattern"
	"github.com/firehallhq/cadintel/internal/reconciler"
	"github.com/firehallhq/cadintel/internal/rmsclient"
)

var incidentDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

func newParser(t *testing.T, model *bayes.Model) (*parser.Parser, *rmsclient.MemoryStore) {
	t.Helper()
	if model == nil {
		model = bayes.NewModel()
	}
	store := rmsclient.NewMemoryStore()
	p := parser.New(
		pattern.NewMatcher(pattern.DefaultRules(), logger.NewNop()),
		model,
		extractor.New(extractor.DefaultEventRules(), logger.NewNop()),
		reconciler.New(store, logger.NewNop()),
		0.5,
		logger.NewNop(),
	)
	return p, store
}

func TestParse_FullPipeline(t *testing.T) {
	p, store := newParser(t, nil)

	raw := []domain.RawComment{
		{Time: "22:40:11", Operator: "CAD", Text: "MSGDELIVERED TO STATION 4"},
		{Time: "22:41:02", Operator: "D412", Text: "CALLER STATES FLAMES VISIBLE SECOND FLOOR"},
		{Time: "22:42:30", Operator: "D412", Text: "E41 ON SCENE CREW OF 4"},
		{Time: "22:45:02", Operator: "D412", Text: "22:43:20 Command Established by BC2"},
	}

	bundle := p.Parse(context.Background(), "2026-001234", incidentDate, raw, nil, false)

	if bundle.IncidentID != "2026-001234" {
		t.Errorf("incident id = %q", bundle.IncidentID)
	}
	if bundle.ParserVersion != parser.ParserVersion {
		t.Errorf("parser version = %q", bundle.ParserVersion)
	}
	if len(bundle.Comments) != 4 {
		t.Fatalf("expected 4 comments, got %d", len(bundle.Comments))
	}

	if !bundle.Comments[0].IsNoise {
		t.Error("CAD chatter should be noise")
	}
	if bundle.Comments[1].Category != domain.CategoryCaller {
		t.Errorf("comment 1 category = %q", bundle.Comments[1].Category)
	}
	if bundle.Comments[1].CategorySource != domain.SourcePattern {
		t.Errorf("comment 1 source = %q", bundle.Comments[1].CategorySource)
	}
	if bundle.Comments[1].CategoryConfidence != 1.0 {
		t.Errorf("pattern matches carry full confidence, got %v", bundle.Comments[1].CategoryConfidence)
	}
	if bundle.Comments[3].Category != domain.CategoryTactical {
		t.Errorf("comment 3 category = %q", bundle.Comments[3].Category)
	}

	if len(bundle.DetectedTimestamps) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(bundle.DetectedTimestamps))
	}
	d := bundle.DetectedTimestamps[0]
	if d.Time != "22:43:20" {
		t.Errorf("detection time = %q, want the clock from the text", d.Time)
	}
	// HIGH confidence auto-applies through to the canonical field.
	if d.MappedBy != domain.MappedBySystem {
		t.Errorf("MappedBy = %q", d.MappedBy)
	}
	value, _ := store.GetTimestampField(context.Background(), "2026-001234", "time_command_established")
	if value != "2026-03-14T22:43:20" {
		t.Errorf("canonical field = %q", value)
	}

	if len(bundle.UnitCrewCounts) != 1 || bundle.UnitCrewCounts[0].UnitID != "E41" {
		t.Errorf("crew counts = %+v", bundle.UnitCrewCounts)
	}
}

func TestParse_MLUnavailableFlagsForReview(t *testing.T) {
	p, _ := newParser(t, nil) // untrained model

	bundle := p.Parse(context.Background(), "inc-1", incidentDate,
		[]domain.RawComment{{Time: "10:00:00", Text: "SEE SUPPLEMENT FOR NARRATIVE"}}, nil, false)

	c := bundle.Comments[0]
	if c.Category != domain.CategoryOther {
		t.Errorf("category = %q, want OTHER", c.Category)
	}
	if c.CategorySource != domain.SourceML {
		t.Errorf("source = %q, want ML", c.CategorySource)
	}
	if !c.NeedsReview {
		t.Error("comment must be flagged for review when the model is unavailable")
	}
	if c.CategoryConfidence != 0 {
		t.Errorf("confidence = %v, want 0", c.CategoryConfidence)
	}
}

func TestParse_TrainedModelClassifiesFallthrough(t *testing.T) {
	examples := []domain.TrainingExample{
		{Text: "RED CROSS REQUESTED FOR OCCUPANTS", Category: domain.CategoryOperations},
		{Text: "FIRE MARSHAL RESPONDING TO SCENE", Category: domain.CategoryOperations},
		{Text: "POLICE HANDLING TRAFFIC AROUND SCENE", Category: domain.CategoryOperations},
		{Text: "SEE PRIOR INCIDENT FOR HISTORY", Category: domain.CategoryOther},
		{Text: "DUPLICATE EVENT DISREGARD ENTRY", Category: domain.CategoryOther},
		{Text: "WRONG ADDRESS CORRECTED ENTRY", Category: domain.CategoryOther},
	}
	clf, err := bayes.Train(examples)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	model := bayes.NewModel()
	model.Swap(clf, 0.9, len(examples), time.Now())

	p, _ := newParser(t, model)
	bundle := p.Parse(context.Background(), "inc-2", incidentDate,
		[]domain.RawComment{{Time: "10:00:00", Text: "DUPLICATE EVENT DISREGARD"}}, nil, false)

	c := bundle.Comments[0]
	if c.CategorySource != domain.SourceML {
		t.Fatalf("source = %q, want ML", c.CategorySource)
	}
	if c.Category != domain.CategoryOther {
		t.Errorf("category = %q, want OTHER", c.Category)
	}
}

func TestParse_DeduplicatesEventTypesAcrossComments(t *testing.T) {
	p, _ := newParser(t, nil)

	raw := []domain.RawComment{
		{Time: "22:43:00", Text: "command established by BC2"},
		{Time: "22:50:00", Text: "reminder command established earlier"},
	}
	bundle := p.Parse(context.Background(), "inc-3", incidentDate, raw, nil, false)

	if len(bundle.DetectedTimestamps) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(bundle.DetectedTimestamps))
	}
	if bundle.DetectedTimestamps[0].Time != "22:43:00" {
		t.Errorf("first occurrence must win, got %q", bundle.DetectedTimestamps[0].Time)
	}
}

func TestParse_ReparsePreservesOfficerCorrections(t *testing.T) {
	p, _ := newParser(t, nil)
	ctx := context.Background()

	raw := []domain.RawComment{
		{Time: "10:00:00", Text: "AMBIGUOUS FREEFORM NARRATIVE"},
	}
	first := p.Parse(ctx, "inc-4", incidentDate, raw, nil, false)

	// Officer corrects the comment between parses.
	first.Comments[0].Category = domain.CategoryOperations
	first.Comments[0].CategorySource = domain.SourceOfficer
	first.Comments[0].CategoryConfidence = 1.0
	first.Comments[0].NeedsReview = false
	at := time.Now()
	first.OfficerReviewedAt = &at

	second := p.Parse(ctx, "inc-4", incidentDate, raw, first, false)
	c := second.Comments[0]
	if c.Category != domain.CategoryOperations || c.CategorySource != domain.SourceOfficer {
		t.Errorf("officer correction lost on reparse: %+v", c)
	}
	if c.NeedsReview {
		t.Error("officer-corrected comment must not be re-flagged")
	}
	// Content changed out from under the reviewer, so the reviewed
	// mark resets.
	if second.OfficerReviewedAt != nil {
		t.Error("reparse must clear the reviewed mark")
	}

	forced := p.Parse(ctx, "inc-4", incidentDate, raw, first, true)
	if forced.Comments[0].CategorySource == domain.SourceOfficer {
		t.Error("force_overwrite must discard officer corrections")
	}
}

func TestParse_ReparsePreservesMappingDecisions(t *testing.T) {
	p, _ := newParser(t, nil)
	ctx := context.Background()

	raw := []domain.RawComment{{Time: "22:43:00", Text: "crews starting primary search"}}
	first := p.Parse(ctx, "inc-5", incidentDate, raw, nil, false)
	if len(first.DetectedTimestamps) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(first.DetectedTimestamps))
	}

	// Officer ignored the LOW-confidence candidate.
	at := time.Now()
	first.DetectedTimestamps[0].MappedTo = domain.MappedIgnored
	first.DetectedTimestamps[0].MappedAt = &at
	first.DetectedTimestamps[0].MappedBy = "officer:a"

	second := p.Parse(ctx, "inc-5", incidentDate, raw, first, false)
	d := second.DetectedTimestamps[0]
	if d.MappedTo != domain.MappedIgnored || d.MappedBy != "officer:a" {
		t.Errorf("mapping decision lost on reparse: %+v", d)
	}
}
