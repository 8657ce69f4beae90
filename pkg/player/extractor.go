package player

import "context"

// Extractor is the capability contract for a plugin that resolves URLs the
// native provider does not recognize.
type Extractor interface {
	Name() string
	// Validate reports whether this extractor can handle the URL.
	Validate(url string) bool
	// Resolve turns the URL into a Song or Playlist.
	Resolve(ctx context.Context, url, requester string) (*ResolveResult, error)
	// StreamURL resolves the playable media URL for a validated URL.
	StreamURL(ctx context.Context, url string) (string, error)
	// RelatedSongs returns autoplay candidates for a validated URL. An empty
	// result is not an error.
	RelatedSongs(ctx context.Context, url string) ([]*Song, error)
}

// Registry holds extractors in registration order. Iteration order is the
// designed tie-break: the first extractor whose Validate accepts a URL wins
// and later ones are never consulted. The registry is read-only once the
// player starts.
type Registry struct {
	extractors []Extractor
}

func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Register appends an extractor. Call before the player starts serving.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Find returns the first extractor validating the URL.
func (r *Registry) Find(url string) (Extractor, bool) {
	for _, e := range r.extractors {
		if e.Validate(url) {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of registered extractors.
func (r *Registry) Len() int {
	return len(r.extractors)
}
