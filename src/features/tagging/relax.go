package tagging

import (
	"strings"

	"github.com/contre95/shadowbox/src/music"
)

// queryPlan lists every query the catalog cascade may issue, in order.
// The first entry is the unmodified query; the rest are relaxations:
//
//	a. title without bracketed segments and featuring credits
//	b. first artist of a comma separated credit
//	c. first word of the artist
//	d. artist without punctuation
//	e. first 3, 2 and 1 words of the cleaned title
//	f. the title alone
//
// Each transformed title is tried with the artist and then without it.
// Queries equal to one already planned are dropped, so the plan is finite
// and never repeats itself.
func queryPlan(title, artist string) []SearchParams {
	p := &planner{seen: make(map[string]bool)}
	p.add(title, artist)

	clean := CleanTitle(title)
	first := music.FirstArtist(artist)

	p.pair(clean, artist)
	p.pair(clean, first)
	p.pair(clean, FirstWord(first))
	p.pair(clean, SimplifyArtist(first))
	for _, n := range []int{3, 2, 1} {
		p.pair(WordPrefix(clean, n), artist)
	}
	p.add(title, "")
	return p.plan
}

type planner struct {
	seen map[string]bool
	plan []SearchParams
}

// pair plans the transformed title with the artist, then without.
func (p *planner) pair(title, artist string) {
	p.add(title, artist)
	p.add(title, "")
}

func (p *planner) add(title, artist string) {
	title, artist = collapse(title), collapse(artist)
	if title == "" {
		return
	}
	key := strings.ToLower(title) + "\x00" + strings.ToLower(artist)
	if p.seen[key] {
		return
	}
	p.seen[key] = true
	p.plan = append(p.plan, SearchParams{Title: title, Artist: artist})
}
