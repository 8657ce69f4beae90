package player

import (
	"context"
	"strconv"
	"strings"
)

// SearchSong runs a capped text search and, when more than one candidate is
// allowed, waits a bounded time for the requester to pick one by 1-based
// index. No results, no reply, and invalid replies all resolve to a nil
// result rather than an error; the corresponding observation fires so the
// caller can explain what happened.
func (p *Player) SearchSong(ctx context.Context, requester, query string) (*SearchResult, error) {
	if p.searcher == nil {
		return nil, newError(ErrUnsupportedURL, query, nil)
	}
	limit := p.opts.SearchSongs
	if limit < 1 {
		limit = 1
	}

	results, err := p.searcher.Search(ctx, query, limit)
	if err != nil || len(results) == 0 {
		p.events.emit(&Event{Type: EventSearchNoResult, Query: query, Err: err, Channel: textChannelFrom(ctx)})
		return nil, nil
	}
	if limit == 1 || p.prompter == nil {
		return results[0], nil
	}

	p.events.emit(&Event{Type: EventSearchResult, Query: query, Results: results, Channel: textChannelFrom(ctx)})

	answer, err := p.prompter.Await(ctx, requester, p.opts.SearchCooldown)
	if err != nil {
		p.events.emit(&Event{Type: EventSearchCancel, Query: query, Channel: textChannelFrom(ctx)})
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(results) {
		p.events.emit(&Event{Type: EventSearchCancel, Query: query, Answer: answer, Channel: textChannelFrom(ctx)})
		return nil, nil
	}

	chosen := results[n-1]
	p.events.emit(&Event{
		Type:    EventSearchDone,
		Query:   query,
		Answer:  answer,
		Results: []*SearchResult{chosen},
		Channel: textChannelFrom(ctx),
	})
	return chosen, nil
}
