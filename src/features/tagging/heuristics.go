package tagging

import (
	"regexp"
	"strings"
)

var (
	// Video noise such as "(Official Music Video)" or "[HD]".
	videoNoiseRe = regexp.MustCompile(`(?i)\s*[\(\[][^\)\]]*\b(official|music|video|audio|lyrics?|hd|4k|visualizer)\b[^\)\]]*[\)\]]`)
	bracketsRe   = regexp.MustCompile(`\s*(\([^)]*\)|\[[^\]]*\]|\{[^}]*\}|<[^>]*>)`)
	featuringRe  = regexp.MustCompile(`(?i)\s*[\(\[]?\s*\b(feat\.|ft\.|featuring)\s.*$`)
	spacesRe     = regexp.MustCompile(`\s+`)
	leadingNumRe = regexp.MustCompile(`^\d+\s*[-._]\s*`)
	numericRe    = regexp.MustCompile(`^[\d\s]+$`)
)

// separators split "Artist - Title" style names, in priority order.
var separators = []string{"-", "–", "—", ":", "|"}

// CleanVideoTitle strips video-site noise from a title.
func CleanVideoTitle(title string) string {
	cleaned := videoNoiseRe.ReplaceAllString(title, "")
	return collapse(cleaned)
}

// CleanUploader turns an auto-generated channel name into an artist name.
func CleanUploader(uploader string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(uploader), " - Topic"))
}

// StripOrdinal removes a leading playlist ordinal such as "03 - ". Only
// collection files carry one.
func StripOrdinal(name string) string {
	return leadingNumRe.ReplaceAllString(name, "")
}

// SplitArtistTitle splits "Artist - Title". Spaced separators win over bare
// ones so that names like "Jay-Z - Song" split at the right place; among
// each kind the leftmost occurrence wins.
func SplitArtistTitle(name string) (artist, title string, ok bool) {
	name = collapse(name)
	if a, t, found := splitAt(name, true); found {
		return a, t, true
	}
	return splitAt(name, false)
}

func splitAt(name string, spaced bool) (string, string, bool) {
	best, bestLen := -1, 0
	for _, sep := range separators {
		needle := sep
		if spaced {
			needle = " " + sep + " "
		}
		if i := strings.Index(name, needle); i >= 0 && (best < 0 || i < best) {
			best, bestLen = i, len(needle)
		}
	}
	if best < 0 {
		return "", "", false
	}
	artist := strings.TrimSpace(name[:best])
	title := strings.TrimSpace(name[best+bestLen:])
	if artist == "" || title == "" {
		return "", "", false
	}
	// "1-800-273-8255" or "2021-05-01" are titles, not credits.
	if !spaced && (numericRe.MatchString(artist) || numericRe.MatchString(title)) {
		return "", "", false
	}
	return artist, title, true
}

// CleanTitle removes bracketed segments and featuring credits.
func CleanTitle(title string) string {
	cleaned := featuringRe.ReplaceAllString(title, "")
	cleaned = bracketsRe.ReplaceAllString(cleaned, "")
	cleaned = collapse(cleaned)
	if cleaned == "" {
		return collapse(title)
	}
	return cleaned
}

// SimplifyArtist drops punctuation that trips up catalog search.
func SimplifyArtist(artist string) string {
	simplified := strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', '-', '_', '&', '+', '.':
			return ' '
		}
		return r
	}, artist)
	return collapse(simplified)
}

// FirstWord returns the first whitespace separated word.
func FirstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// WordPrefix returns the first n words of s.
func WordPrefix(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

func collapse(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
