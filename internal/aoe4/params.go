package aoe4

import (
	"strconv"
	"strings"

	"github.com/osse101/statsgate/internal/domain"
)

var (
	// gamesLeaderboards are accepted by the games listing. The _elo names are
	// the keys the leaderboard pages use for the same queues.
	gamesLeaderboards = setOf(
		"rm_solo", "rm_team", "rm_1v1", "rm_2v2", "rm_3v3", "rm_4v4",
		"qm_1v1", "qm_2v2", "qm_3v3", "qm_4v4", "qm_ffa",
	)
	gamesLeaderboardAliases = map[string]string{
		"rm_1v1_elo": "rm_1v1",
		"rm_2v2_elo": "rm_2v2",
		"rm_3v3_elo": "rm_3v3",
	}

	rankedLeaderboards = setOf(
		"rm_solo", "rm_team", "rm_1v1", "rm_2v2", "rm_3v3", "rm_4v4",
		"qm_1v1", "qm_2v2", "qm_3v3", "qm_4v4", "qm_ffa",
		"rm_solo_console", "rm_team_console",
		"qm_1v1_console", "qm_2v2_console", "qm_3v3_console", "qm_4v4_console", "qm_ffa_console",
	)

	metaLeaderboards = setOf(
		"rm_solo", "rm_2v2", "rm_3v3", "rm_4v4",
		"qm_1v1", "qm_2v2", "qm_3v3", "qm_4v4",
	)
)

// MetaType is a stats breakdown offered by the meta endpoint.
type MetaType string

const (
	MetaCivilizations MetaType = "civilizations"
	MetaMaps          MetaType = "maps"
	MetaMatchups      MetaType = "matchups"
	MetaTeams         MetaType = "teams"
)

func setOf(values ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// parsePositiveID accepts a positive integer id. Anything else is rejected
// before a request is made.
func parsePositiveID(raw, invalidMsg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.BadRequest(invalidMsg)
	}
	return id, nil
}

func parseProfileID(raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, domain.BadRequest(ErrMsgProfileIDRequired)
	}
	return parsePositiveID(raw, ErrMsgProfileIDInvalid)
}

// normalizeGamesLeaderboard resolves aliases. An empty key is allowed and
// means no filter.
func normalizeGamesLeaderboard(key string) (string, bool) {
	if key == "" {
		return "", true
	}
	if canonical, ok := gamesLeaderboardAliases[key]; ok {
		return canonical, true
	}
	_, ok := gamesLeaderboards[key]
	return key, ok
}

func parseMetaType(s string) (MetaType, bool) {
	switch t := MetaType(s); t {
	case MetaCivilizations, MetaMaps, MetaMatchups, MetaTeams:
		return t, true
	}
	return "", false
}
