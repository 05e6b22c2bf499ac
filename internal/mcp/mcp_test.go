package mcp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/korjavin/druglookup/internal/drug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	res *drug.Result
	err error
}

func (f fakeLookup) Lookup(ctx context.Context, name string) (*drug.Result, error) {
	return f.res, f.err
}

func TestHandleLookupDrug(t *testing.T) {
	want := &drug.Result{
		Query:   "aspirin",
		Matches: []drug.Match{{Name: "aspirin", RxCUI: "1191"}},
		Interactions: []drug.InteractionPair{
			{Description: "Bleeding.", Severity: "High", RelatedConcepts: []drug.Concept{{Name: "warfarin", RxCUI: "11289"}}},
		},
		InteractionsRaw: []byte(`{"interactionTypeGroup":[]}`),
	}
	s := NewServer(0, fakeLookup{res: want}, nil)

	_, got, err := s.handleLookupDrug(context.Background(), nil, LookupDrugInput{Name: "aspirin"})
	require.NoError(t, err)
	assert.Equal(t, LookupDrugOutput{
		Query:        want.Query,
		Matches:      want.Matches,
		Interactions: want.Interactions,
	}, got)
}

func TestHandleLookupDrug_Errors(t *testing.T) {
	s := NewServer(0, fakeLookup{err: drug.ErrEmptyQuery}, nil)
	_, _, err := s.handleLookupDrug(context.Background(), nil, LookupDrugInput{})
	assert.EqualError(t, err, "name is required")

	upstream := errors.New("drug search unavailable: rxnorm responded with 503")
	s = NewServer(0, fakeLookup{err: upstream}, nil)
	_, _, err = s.handleLookupDrug(context.Background(), nil, LookupDrugInput{Name: "aspirin"})
	assert.ErrorIs(t, err, upstream)
}

func TestHealth(t *testing.T) {
	s := NewServer(0, fakeLookup{}, nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
