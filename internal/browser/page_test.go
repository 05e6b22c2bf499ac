package browser

import (
	"bytes"
	"testing"

	"github.com/korjavin/druglookup/internal/drug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRender(t *testing.T) {
	page, err := NewPage()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = page.Render(&buf, PageData{
		User:     "alice",
		Searched: true,
		View:     Render(aspirinResult(), ViewState{Page: 1, Filter: FilterAll, Sort: SortSeverity}),
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Signed in as <strong>alice</strong>")
	assert.Contains(t, html, "aspirin 81 MG Oral Tablet")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("warfarin")), bytes.Index(buf.Bytes(), []byte("ibuprofen")))
	assert.Contains(t, html, `badge severity-high`)
}

func TestPageRender_PaginationLinksEscapeQuery(t *testing.T) {
	page, err := NewPage()
	require.NoError(t, err)

	res := resultWithMatches(15)
	res.Query = "st john's wort"

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf, PageData{Searched: true, View: Render(res, ViewState{Page: 1})}))
	assert.Contains(t, buf.String(), "q=st%20john%27s%20wort")
	assert.Contains(t, buf.String(), "page=2")
}

func TestPageRender_Notices(t *testing.T) {
	page, err := NewPage()
	require.NoError(t, err)

	var buf bytes.Buffer
	view := Render(&drug.Result{Query: "aspirin", Matches: []drug.Match{{Name: "aspirin"}}, InteractionsError: "boom"}, DefaultViewState())
	require.NoError(t, page.Render(&buf, PageData{Searched: true, View: view, Notice: "Interaction data is unavailable right now."}))
	assert.Contains(t, buf.String(), "Interaction data is unavailable right now.")

	buf.Reset()
	view = Render(&drug.Result{Query: "aspirin", Matches: []drug.Match{}}, ViewState{Filter: FilterHigh})
	require.NoError(t, page.Render(&buf, PageData{Searched: true, View: view}))
	assert.Contains(t, buf.String(), "No interactions found for the selected severity level.")

	buf.Reset()
	require.NoError(t, page.Render(&buf, PageData{Error: "Please enter a drug name."}))
	assert.Contains(t, buf.String(), "Please enter a drug name.")
}

func TestPageRender_AccountForms(t *testing.T) {
	page, err := NewPage()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf, PageData{AuthError: "Passwords do not match"}))
	html := buf.String()
	assert.Contains(t, html, `action="/login"`)
	assert.Contains(t, html, `action="/signup"`)
	assert.Contains(t, html, `name="confirm"`)
	assert.NotContains(t, html, `action="/logout"`)
	assert.Contains(t, html, "Passwords do not match")

	buf.Reset()
	require.NoError(t, page.Render(&buf, PageData{User: "alice", AuthInfo: "Username updated!"}))
	html = buf.String()
	assert.Contains(t, html, `action="/account/username"`)
	assert.Contains(t, html, `action="/logout"`)
	assert.NotContains(t, html, `action="/signup"`)
	assert.Contains(t, html, "Username updated!")
}
