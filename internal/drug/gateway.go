// Package drug merges RxNorm name resolution and interaction data into the
// flat result document served by /api/drug.
package drug

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/korjavin/druglookup/internal/rxnorm"
	"go.uber.org/zap"
)

var (
	ErrEmptyQuery          = errors.New("missing drug name")
	ErrUpstreamUnavailable = errors.New("drug search unavailable")
)

const UnknownSeverity = "unknown"

type Match struct {
	Name     string `json:"name"`
	RxCUI    string `json:"rxcui,omitempty"`
	TTY      string `json:"tty"`
	Language string `json:"language"`
}

type Concept struct {
	Name  string `json:"name"`
	RxCUI string `json:"rxcui"`
}

type InteractionPair struct {
	Description     string    `json:"description"`
	Severity        string    `json:"severity"`
	RelatedConcepts []Concept `json:"interactions"`
}

// Result is the document returned for one query.
type Result struct {
	Query             string            `json:"query"`
	Matches           []Match           `json:"matches"`
	Interactions      []InteractionPair `json:"interactions,omitempty"`
	InteractionsError string            `json:"interactionsError,omitempty"`

	// InteractionsRaw is the upstream interaction payload, unchanged.
	InteractionsRaw json.RawMessage `json:"interactionsRaw,omitempty"`
}

// Upstream is the subset of the RxNorm client the gateway needs.
type Upstream interface {
	SearchDrugs(ctx context.Context, name string) (*rxnorm.DrugsResponse, error)
	Interactions(ctx context.Context, rxcui string) (*rxnorm.InteractionResponse, error)
}

type Gateway struct {
	upstream Upstream
	logger   *zap.Logger
}

func NewGateway(upstream Upstream, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{upstream: upstream, logger: logger}
}

// Lookup resolves name into matches and, when a top candidate exists, its
// interactions. A failed interaction call does not fail the lookup; the
// error message is reported in InteractionsError instead.
func (g *Gateway) Lookup(ctx context.Context, name string) (*Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}

	drugs, err := g.upstream.SearchDrugs(ctx, name)
	if err != nil {
		g.logger.Warn("drug search failed", zap.String("query", name), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	result := &Result{
		Query:   name,
		Matches: collectMatches(drugs),
	}

	if len(result.Matches) == 0 {
		return result, nil
	}

	rxcui := result.Matches[0].RxCUI
	if rxcui == "" {
		return result, nil
	}

	interactions, err := g.upstream.Interactions(ctx, rxcui)
	if err != nil {
		g.logger.Warn("interaction lookup failed", zap.String("rxcui", rxcui), zap.Error(err))
		result.InteractionsError = err.Error()
		return result, nil
	}
	result.Interactions = collectPairs(interactions)
	if interactions != nil {
		result.InteractionsRaw = interactions.Raw
	}

	return result, nil
}

func collectMatches(resp *rxnorm.DrugsResponse) []Match {
	matches := []Match{}
	if resp == nil || resp.DrugGroup == nil {
		return matches
	}
	for _, group := range resp.DrugGroup.ConceptGroup {
		for _, cp := range group.ConceptProperties {
			matches = append(matches, Match{
				Name:     cp.Name,
				RxCUI:    cp.RxCUI,
				TTY:      cp.TTY,
				Language: cp.Language,
			})
		}
	}
	return matches
}

func collectPairs(resp *rxnorm.InteractionResponse) []InteractionPair {
	if resp == nil {
		return nil
	}

	var pairs []InteractionPair
	for _, typeGroup := range resp.InteractionTypeGroup {
		for _, it := range typeGroup.InteractionType {
			for _, pair := range it.InteractionPair {
				p := InteractionPair{
					Severity:        UnknownSeverity,
					RelatedConcepts: []Concept{},
				}
				if pair.Description != nil {
					p.Description = *pair.Description
				}
				if pair.Severity != nil && *pair.Severity != "" {
					p.Severity = *pair.Severity
				}
				for _, ic := range pair.InteractionConcept {
					if ic.MinConceptItem == nil {
						continue
					}
					p.RelatedConcepts = append(p.RelatedConcepts, Concept{
						Name:  ic.MinConceptItem.Name,
						RxCUI: ic.MinConceptItem.RxCUI,
					})
				}
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}
