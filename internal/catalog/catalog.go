// Package catalog holds the immutable per-sport participant registry used to
// resolve team references in market titles and tickers.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Catalog is the fixed, ordered participant list for one sport. It has no
// mutation API and is safe for concurrent use.
type Catalog struct {
	sport        domain.Sport
	participants []domain.Participant
	byCode       map[string]int
	byAlias      map[string]int
}

// New builds a catalog from participants in the given order. Short codes are
// upper-cased and aliases lower-cased; the canonical name and short code are
// always added as aliases.
func New(sport domain.Sport, participants []domain.Participant) (*Catalog, error) {
	c := &Catalog{
		sport:        sport,
		participants: make([]domain.Participant, 0, len(participants)),
		byCode:       make(map[string]int, len(participants)),
		byAlias:      make(map[string]int, len(participants)*4),
	}
	for _, p := range participants {
		code := strings.ToUpper(strings.TrimSpace(p.ShortCode))
		if code == "" {
			return nil, fmt.Errorf("catalog: %s: participant %q has no short code", sport, p.CanonicalName)
		}
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("catalog: %s: duplicate short code %q", sport, code)
		}

		aliases := normalizeAliases(append([]string{p.CanonicalName, code}, p.Aliases...))
		idx := len(c.participants)
		c.participants = append(c.participants, domain.Participant{
			CanonicalName: p.CanonicalName,
			ShortCode:     code,
			Aliases:       aliases,
		})
		c.byCode[code] = idx
		for _, a := range aliases {
			// First registration wins so lookups follow catalog order.
			if _, ok := c.byAlias[a]; !ok {
				c.byAlias[a] = idx
			}
		}
	}
	return c, nil
}

// Sport returns the sport this catalog covers.
func (c *Catalog) Sport() domain.Sport { return c.sport }

// Len returns the number of participants.
func (c *Catalog) Len() int { return len(c.participants) }

// Participants returns a copy of the participants in catalog order.
func (c *Catalog) Participants() []domain.Participant {
	out := make([]domain.Participant, len(c.participants))
	copy(out, c.participants)
	return out
}

// At returns the participant at catalog position i.
func (c *Catalog) At(i int) domain.Participant { return c.participants[i] }

// ByCode looks a participant up by short code, case-insensitively.
func (c *Catalog) ByCode(code string) (domain.Participant, bool) {
	idx, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return domain.Participant{}, false
	}
	return c.participants[idx], true
}

// Resolve looks a token up as a short code first and then as an exact alias.
func (c *Catalog) Resolve(token string) (domain.Participant, bool) {
	if p, ok := c.ByCode(token); ok {
		return p, true
	}
	idx, ok := c.byAlias[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return domain.Participant{}, false
	}
	return c.participants[idx], true
}

func normalizeAliases(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.Join(strings.Fields(a), " "))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// Registry maps sports to catalogs. It is built once at startup.
type Registry struct {
	catalogs map[domain.Sport]*Catalog
}

// NewRegistry builds a catalog per sport from the supplied alias tables.
func NewRegistry(tables map[domain.Sport][]domain.Participant) (*Registry, error) {
	r := &Registry{catalogs: make(map[domain.Sport]*Catalog, len(tables))}
	for sport, participants := range tables {
		c, err := New(sport, participants)
		if err != nil {
			return nil, err
		}
		r.catalogs[sport] = c
	}
	return r, nil
}

// Catalog returns the catalog for sport or domain.ErrUnknownSport.
func (r *Registry) Catalog(sport domain.Sport) (*Catalog, error) {
	c, ok := r.catalogs[domain.Sport(strings.ToLower(string(sport)))]
	if !ok {
		return nil, fmt.Errorf("catalog: %q: %w", sport, domain.ErrUnknownSport)
	}
	return c, nil
}

// Sports lists the registered sports in lexical order.
func (r *Registry) Sports() []domain.Sport {
	out := make([]domain.Sport, 0, len(r.catalogs))
	for s := range r.catalogs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the shipped NFL and NBA tables.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(map[domain.Sport][]domain.Participant{
			domain.SportNFL: nflTeams,
			domain.SportNBA: nbaTeams,
		})
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Get returns the default catalog for sport.
func Get(sport domain.Sport) (*Catalog, error) {
	return Default().Catalog(sport)
}
