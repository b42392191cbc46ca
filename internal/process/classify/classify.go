// Package classify implements the first-pass relevance verdict for scraped
// events.
//
// Classification is a deterministic term heuristic over the event name and
// summary:
//   - any white term present keeps the event,
//   - otherwise any black term present rejects it outright,
//   - otherwise the event is undecided (grey) and queued for rescoring.
//
// White terms win over black terms, so "Classic Car & Boat Show" stays in.
package classify

import (
	"golang.org/x/text/cases"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
	"github.com/motorlist/eventbrite-harvester/internal/process/match"
)

// Decision is the first-pass verdict for a raw event.
type Decision string

// First-pass verdicts. Rejected events are dropped outright and never reach
// a bucket.
const (
	DecisionWhite  Decision = "white"
	DecisionGrey   Decision = "grey"
	DecisionReject Decision = "reject"
)

// Classifier assigns first-pass verdicts from immutable term lists.
//
// Not safe for concurrent use; the folding caser carries state.
type Classifier struct {
	white []string
	black []string
	caser cases.Caser
}

// New creates a Classifier over the given term lists. Nil lists fall back to
// the built-in defaults. Both lists are copied, so mutating the arguments
// afterwards does not affect the classifier.
func New(white, black []string) *Classifier {
	if white == nil {
		white = DefaultWhiteTerms()
	}

	if black == nil {
		black = DefaultBlackTerms()
	}

	return &Classifier{
		white: append([]string(nil), white...),
		black: append([]string(nil), black...),
		caser: cases.Fold(),
	}
}

// Classify returns the verdict for ev based on its name and summary.
// A missing summary is treated as empty, never as an error.
func (c *Classifier) Classify(ev domain.RawEvent) Decision {
	haystack := c.caser.String(ev.Name + ev.Summary)

	switch {
	case match.ContainsAny(haystack, c.white):
		return DecisionWhite
	case match.ContainsAny(haystack, c.black):
		return DecisionReject
	default:
		return DecisionGrey
	}
}

// Scores returns the white and black term occurrence counts over ev's name
// and summary. Classify does not consult the counts; they exist for
// archiving and offline review.
func (c *Classifier) Scores(ev domain.RawEvent) (white, black int) {
	haystack := c.caser.String(ev.Name + ev.Summary)

	return match.Score(haystack, c.white), match.Score(haystack, c.black)
}
