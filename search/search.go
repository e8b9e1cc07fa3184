// Package search integrates a user's highlighted (trophied) items with a search index.
//
// Query construction belongs to the index; this package only decides whether the index
// needs to be asked at all, and defines the canonical empty result returned when it does not.
package search

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultRows is the page size reported by an empty result
const DefaultRows = 11

// Document is a single search result document, as returned by the index
type Document map[string]interface{}

// Params echoes the request parameters in a response header
type Params struct {
	WT   string `json:"wt"`
	Rows string `json:"rows"`
	Q    string `json:"q"`
}

// Header is the response header of a search result
type Header struct {
	Status int    `json:"status"`
	Params Params `json:"params"`
}

// Result is the body of a search result
type Result struct {
	NumFound int        `json:"numFound"`
	Start    int        `json:"start"`
	Docs     []Document `json:"docs"`
}

// Response is a paginated search result, shaped like a Solr response
type Response struct {
	Header   Header `json:"responseHeader"`
	Response Result `json:"response"`
}

// EmptyResponse is the canonical result for a search that has nothing to find, e.g. for a
// user with no highlighted items.  It is the same regardless of what was queried.
func EmptyResponse() Response {
	return Response{
		Header: Header{
			Status: 0,
			Params: Params{
				WT:   "ruby",
				Rows: strconv.Itoa(DefaultRows),
				Q:    "*:*",
			},
		},
		Response: Result{
			NumFound: 0,
			Start:    0,
			Docs:     []Document{},
		},
	}
}

// Empty is true if the response reports a successful search that found nothing
func (r Response) Empty() bool {
	return r.Header.Status == 0 && r.Response.NumFound == 0 && len(r.Response.Docs) == 0
}

// Query is an opaque search request, passed through to the index
type Query struct {
	Q    string
	Rows int
	Page int
}

// Index performs searches scoped to a user
type Index interface {
	Search(ctx context.Context, user string, q Query) (Response, []Document, error)
}

// TrophyCounter counts the items a user has highlighted
type TrophyCounter interface {
	CountByUser(ctx context.Context, user string) (int, error)
}

// Highlights searches a user's highlighted items
type Highlights struct {
	Trophies TrophyCounter
	Index    Index
	Log      *zap.Logger
}

// Search returns the user's highlighted items matching the query.  A user with no
// highlighted items gets the empty response, without the index being consulted.
func (h Highlights) Search(ctx context.Context, user string, q Query) (Response, []Document, error) {
	log := h.Log
	if log == nil {
		log = zap.NewNop()
	}

	count, err := h.Trophies.CountByUser(ctx, user)
	if err != nil {
		return Response{}, nil, errors.Wrapf(err, "could not count highlights of %s", user)
	}

	if count == 0 {
		log.Debug("no highlights, skipping index", zap.String("user", user))
		return EmptyResponse(), []Document{}, nil
	}

	resp, docs, err := h.Index.Search(ctx, user, q)
	if err != nil {
		return Response{}, nil, errors.Wrapf(err, "could not search highlights of %s", user)
	}

	return resp, docs, nil
}
