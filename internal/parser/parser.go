// Package parser runs the full comment pipeline for one incident:
// layered classification, tactical-timestamp extraction, crew-count
// extraction, and high-confidence field auto-application.
package parser

import (
	"context"
	"time"

	"github.com/firehallhq/cadintel/internal/bayes"
	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/extractor"
	"github.com/firehallhq/cadintel/internal/logger"
	"github.com/firehallhq/cadintel/internal/pattern"
	"github.com/firehallhq/cadintel/internal/reconciler"
)

// ParserVersion stamps every bundle with the pipeline revision that
// produced it. Bump on any change to rules, extraction, or merge
// semantics.
const ParserVersion = "2.1.0"

// Parser wires the classification layers and the extractor into one
// parse operation. Immutable after construction, safe for concurrent
// use.
type Parser struct {
	matcher    *pattern.Matcher
	model      *bayes.Model
	extractor  *extractor.Extractor
	reconciler *reconciler.Reconciler
	threshold  float64
	logger     logger.Logger
	now        func() time.Time
}

// New assembles a parser. threshold is the ML confidence floor below
// which a statistically classified comment is flagged for review.
func New(m *pattern.Matcher, model *bayes.Model, ex *extractor.Extractor, rec *reconciler.Reconciler, threshold float64, log logger.Logger) *Parser {
	return &Parser{
		matcher:    m,
		model:      model,
		extractor:  ex,
		reconciler: rec,
		threshold:  threshold,
		logger:     log,
		now:        time.Now,
	}
}

// Parse classifies the raw comment log, extracts tactical timestamps
// and crew counts, and auto-applies high-confidence detections. When
// existing is non-nil this is a reparse: officer category corrections
// and prior field mappings carry over unless forceOverwrite is set.
// A reparse always clears the reviewed mark, since the bundle content
// changed out from under the reviewer.
func (p *Parser) Parse(ctx context.Context, incidentID string, incidentDate time.Time, raw []domain.RawComment, existing *domain.CommentBundle, forceOverwrite bool) *domain.CommentBundle {
	bundle := &domain.CommentBundle{
		IncidentID:    incidentID,
		ParsedAt:      p.now(),
		ParserVersion: ParserVersion,
	}

	for i, rc := range raw {
		c := domain.Comment{
			Index:    i,
			Time:     rc.Time,
			Operator: rc.Operator,
			Text:     rc.Text,
		}
		p.classify(&c)
		if existing != nil && !forceOverwrite {
			p.carryOfficerCategory(&c, existing)
		}
		bundle.Comments = append(bundle.Comments, c)
	}

	// First occurrence of each tactical event type across the whole
	// log wins; later repeats are radio echo, not new events.
	seen := make(map[string]bool)
	for i := range bundle.Comments {
		c := &bundle.Comments[i]
		for _, d := range p.extractor.Extract(*c, incidentDate) {
			if seen[d.DetectedType] {
				continue
			}
			seen[d.DetectedType] = true
			bundle.DetectedTimestamps = append(bundle.DetectedTimestamps, d)
		}
		bundle.UnitCrewCounts = append(bundle.UnitCrewCounts, p.extractor.ExtractCrewCounts(*c)...)
	}

	if existing != nil && !forceOverwrite {
		p.carryMappings(bundle, existing)
	}

	p.reconciler.AutoApply(ctx, bundle)

	p.logger.Info("incident comments parsed",
		logger.String("incident_id", incidentID),
		logger.Int("comments", len(bundle.Comments)),
		logger.Int("detections", len(bundle.DetectedTimestamps)),
		logger.Bool("reparse", existing != nil))
	return bundle
}

// classify runs the pattern layer first, falling through to the
// statistical model only when no rule fires.
func (p *Parser) classify(c *domain.Comment) {
	if m, ok := p.matcher.Match(c.Text); ok {
		c.Category = domain.Category(m.Category)
		c.CategorySource = domain.SourcePattern
		c.CategoryConfidence = 1.0
		c.IsNoise = m.Noise
		return
	}

	cat, conf, err := p.model.Classify(c.Text)
	if err != nil {
		c.Category = domain.CategoryOther
		c.CategorySource = domain.SourceML
		c.CategoryConfidence = 0
		c.NeedsReview = true
		return
	}
	c.Category = cat
	c.CategorySource = domain.SourceML
	c.CategoryConfidence = conf
	c.NeedsReview = conf < p.threshold
}

// carryOfficerCategory keeps an officer's prior correction for the
// comment at the same index. Officer assignments are terminal.
func (p *Parser) carryOfficerCategory(c *domain.Comment, existing *domain.CommentBundle) {
	prev, ok := existing.CommentByIndex(c.Index)
	if !ok || prev.CategorySource != domain.SourceOfficer || prev.Text != c.Text {
		return
	}
	c.Category = prev.Category
	c.CategorySource = domain.SourceOfficer
	c.CategoryConfidence = prev.CategoryConfidence
	c.IsNoise = prev.IsNoise
	c.NeedsReview = false
}

// carryMappings copies prior mapping decisions onto freshly detected
// candidates. A candidate matches when type and wall-clock time agree;
// anything else is a genuinely new detection.
func (p *Parser) carryMappings(bundle, existing *domain.CommentBundle) {
	for i := range bundle.DetectedTimestamps {
		d := &bundle.DetectedTimestamps[i]
		for j := range existing.DetectedTimestamps {
			prev := &existing.DetectedTimestamps[j]
			if prev.DetectedType == d.DetectedType && prev.Time == d.Time && prev.MappedTo != "" {
				d.MappedTo = prev.MappedTo
				d.MappedAt = prev.MappedAt
				d.MappedBy = prev.MappedBy
				break
			}
		}
	}
}
