package halo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MatchesPageSize is the most match summaries the matches endpoint returns per call.
const MatchesPageSize = 25

// Endpoints holds the upstream base URLs. Builders escape every path value.
type Endpoints struct {
	StatsURL    string
	SummaryURL  string
	MetadataURL string
}

// NewEndpoints trims trailing slashes from the base URLs.
func NewEndpoints(statsURL, summaryURL, metadataURL string) Endpoints {
	return Endpoints{
		StatsURL:    strings.TrimRight(statsURL, "/"),
		SummaryURL:  strings.TrimRight(summaryURL, "/"),
		MetadataURL: strings.TrimRight(metadataURL, "/"),
	}
}

// PlayerStats is the player summary stats URL.
func (e Endpoints) PlayerStats(gamertag string) string {
	return fmt.Sprintf("%s/players/%s/stats", e.SummaryURL, url.PathEscape(gamertag))
}

// PlayerMatches is one page of the player's match history.
func (e Endpoints) PlayerMatches(gamertag string, start, count int) string {
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("count", strconv.Itoa(count))
	return fmt.Sprintf("%s/players/%s/matches?%s", e.StatsURL, url.PathEscape(gamertag), q.Encode())
}

// MatchDetail is the full match result URL.
func (e Endpoints) MatchDetail(matchID string) string {
	return fmt.Sprintf("%s/matches/%s", e.StatsURL, url.PathEscape(matchID))
}

// MatchEvents is the match event stream URL.
func (e Endpoints) MatchEvents(matchID string) string {
	return fmt.Sprintf("%s/matches/%s/events", e.SummaryURL, url.PathEscape(matchID))
}

// Metadata is one page of a metadata collection.
func (e Endpoints) Metadata(kind MetadataKind, startAt int) string {
	return fmt.Sprintf("%s/%s?startAt=%d", e.MetadataURL, url.PathEscape(string(kind)), startAt)
}
