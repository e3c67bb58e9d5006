package export

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/gridstats/nfl-export/internal/frame"
)

func playerStatsFrame(rows ...map[string]string) *frame.Frame {
	cols := append(
		[]string{"player_id", "week", "season", "team", "position", "fantasy_points", "fantasy_points_ppr"},
		playerStatColumns...,
	)
	f := frame.New(cols)
	for _, m := range rows {
		r := make([]string, len(cols))
		for i, c := range cols {
			r[i] = m[c]
		}
		f.Append(r)
	}
	return f
}

func teamIDOf(label string) string {
	return strconv.FormatUint(TeamID(CanonicalAbbr(label)), 10)
}

func TestBuildWeeklyPlayerData(t *testing.T) {
	pctx := &Context{PlayerStats: playerStatsFrame(
		map[string]string{
			"player_id": "00-001", "week": "1.0", "season": "2020",
			"team": "OAK", "position": "QB",
			"fantasy_points": "18.4", "fantasy_points_ppr": "18.4",
			"passing_yards": "250", "rushing_yards": "12",
		},
	)}

	got, err := BuildWeeklyPlayerData(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildWeeklyPlayerData: %v", err)
	}
	if !reflect.DeepEqual(got.Columns(), WeeklyPlayerColumns) {
		t.Fatalf("columns = %v, want %v", got.Columns(), WeeklyPlayerColumns)
	}
	r := got.Row(0)
	if v := r.Get("week"); v != "1" {
		t.Errorf("week = %q, want 1", v)
	}
	if v := r.Get("yards"); v != "262" {
		t.Errorf("yards = %q, want 262 (null receiving yards count as 0)", v)
	}
	if v := r.Get("teamID"); v != teamIDOf("LV") {
		t.Errorf("teamID = %q, want the canonical LV id", v)
	}
}

func TestBuildHistoricPlayerDataRollsUpWeeks(t *testing.T) {
	pctx := &Context{PlayerStats: playerStatsFrame(
		map[string]string{
			"player_id": "00-001", "week": "1", "season": "2020",
			"team": "KC", "position": "K",
			"fantasy_points": "10", "passing_yards": "100", "fg_pct": "50",
		},
		map[string]string{
			"player_id": "00-001", "week": "2", "season": "2020",
			"team": "KC", "position": "K",
			"fantasy_points": "20", "passing_yards": "50",
		},
		map[string]string{
			"player_id": "00-001", "week": "10", "season": "2020",
			"team": "LV", "position": "K",
			"fantasy_points": "6",
		},
	)}

	got, err := BuildHistoricPlayerData(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildHistoricPlayerData: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2 (one per player-year-team-position)", got.Len())
	}
	if got.Has("week") {
		t.Error("yearly rollup still carries a week column")
	}

	kc := got.Row(0)
	if v := kc.Get("ppg"); v != "15" {
		t.Errorf("ppg = %q, want 15 (mean of 10 and 20)", v)
	}
	if v := kc.Get("yards"); v != "150" {
		t.Errorf("yards = %q, want 150 (sum)", v)
	}
	if v := kc.Get("fg_pct"); v != "50" {
		t.Errorf("fg_pct = %q, want 50 (mean ignores the null week)", v)
	}
	if v := kc.Get("teamID"); v != teamIDOf("KC") {
		t.Errorf("teamID = %q, want the KC id", v)
	}
}

func TestBuildWeeklyTeamDataRunningRecord(t *testing.T) {
	schedules := newFrame(
		[]string{"season", "week", "home_team", "away_team", "home_score", "away_score"},
		[]string{"2020", "1", "KC", "DEN", "27", "3"},
		[]string{"2020", "2", "DEN", "KC", "20", "10"},
		[]string{"2020", "3", "KC", "DEN", "", ""},
		[]string{"2020", "", "KC", "DEN", "", ""},
	)
	pctx := &Context{Schedules: schedules}

	got, err := BuildWeeklyTeamData(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildWeeklyTeamData: %v", err)
	}
	if !reflect.DeepEqual(got.Columns(), WeeklyTeamColumns) {
		t.Fatalf("columns = %v, want %v", got.Columns(), WeeklyTeamColumns)
	}
	if got.Len() != 6 {
		t.Fatalf("rows = %d, want 6 (two per scheduled week, null weeks dropped)", got.Len())
	}

	kcID := teamIDOf("KC")
	type record struct{ wins, losses, ties string }
	byWeek := map[string]record{}
	for i := 0; i < got.Len(); i++ {
		r := got.Row(i)
		if r.Get("teamID") != kcID {
			continue
		}
		byWeek[r.Get("week")] = record{r.Get("wins"), r.Get("losses"), r.Get("ties")}
	}

	if got, want := byWeek["1"], (record{"1", "0", "0"}); got != want {
		t.Errorf("week 1 record = %v, want %v", got, want)
	}
	if got, want := byWeek["2"], (record{"1", "1", "0"}); got != want {
		t.Errorf("week 2 record = %v, want %v", got, want)
	}
	// Week 3 is unplayed: the record carries forward unchanged.
	if got, want := byWeek["3"], (record{"1", "1", "0"}); got != want {
		t.Errorf("week 3 record = %v, want %v", got, want)
	}
}

func TestBuildTeamMappingMergesRelocations(t *testing.T) {
	teams := newFrame(
		[]string{"team_abbr", "team_name", "team_conf", "team_division"},
		[]string{"OAK", "Oakland Raiders", "AFC", "AFC West"},
		[]string{"LV", "Las Vegas Raiders", "AFC", "AFC West"},
		[]string{"KC", "Kansas City Chiefs", "AFC", "AFC West"},
	)
	pctx := &Context{Teams: teams}

	got, err := BuildTeamMapping(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildTeamMapping: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2 (OAK and LV merged)", got.Len())
	}

	raiders := got.Row(0)
	if v := raiders.Get("teamID"); v != teamIDOf("LV") {
		t.Errorf("teamID = %q, want the LV id", v)
	}
	if v := raiders.Get("name"); v != "Raiders" {
		t.Errorf("name = %q, want Raiders", v)
	}
	if v := raiders.Get("city"); v != "Las Vegas" {
		t.Errorf("city = %q, want Las Vegas", v)
	}
	if v := raiders.Get("division"); v != "AFC West" {
		t.Errorf("division = %q, want AFC West", v)
	}
}

func TestBuildPlayerMappingFiltersByLastSeason(t *testing.T) {
	players := newFrame(
		[]string{"gsis_id", "pfr_id", "display_name", "first_name", "last_name", "birth_date", "last_season"},
		[]string{"00-001", "SmitJo01", "John Smith", "John", "Smith", "1990-01-01", "2020"},
		[]string{"00-002", "OldgGu02", "Old Guy", "Old", "Guy", "1970-01-01", "2010"},
		[]string{"00-003", "NewbRo03", "New Rookie", "New", "Rookie", "2000-01-01", ""},
		[]string{"00-001", "SmitJo01", "John Smith", "John", "Smith", "1990-01-01", "2021"},
	)
	pctx := &Context{Players: players, StartYear: 2015}

	got, err := BuildPlayerMapping(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildPlayerMapping: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2 (old player dropped, duplicate collapsed)", got.Len())
	}
	r := got.Row(0)
	if v := r.Get("playerID"); v != "00-001" {
		t.Errorf("playerID = %q, want 00-001", v)
	}
	if v := r.Get("playerID_trade"); v != "SmitJo01" {
		t.Errorf("playerID_trade = %q, want SmitJo01", v)
	}
	if v := got.Row(1).Get("playerID"); v != "00-003" {
		t.Errorf("second playerID = %q, want 00-003 (unknown last season kept)", v)
	}
}

func TestBuildPlayerContracts(t *testing.T) {
	pctx := &Context{
		Contracts: newFrame(
			[]string{"otc_id", "year_signed", "years", "apy"},
			[]string{"100", "2020", "2", "10"},
			[]string{"999", "2020", "1", "5"},
		),
		Players: newFrame(
			[]string{"gsis_id", "otc_id"},
			[]string{"00-001", "100"},
		),
	}

	got, err := BuildPlayerContracts(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildPlayerContracts: %v", err)
	}
	if !reflect.DeepEqual(got.Columns(), ContractColumns) {
		t.Fatalf("columns = %v, want %v", got.Columns(), ContractColumns)
	}
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2 (unmapped contract dropped, mapped one exploded)", got.Len())
	}
	r := got.Row(1)
	if v := r.Get("playerID"); v != "00-001" {
		t.Errorf("playerID = %q, want 00-001", v)
	}
	if v := r.Get("year"); v != "2021" {
		t.Errorf("second year = %q, want 2021", v)
	}
	if v := r.Get("contract_years"); v != "2" {
		t.Errorf("contract_years = %q, want 2", v)
	}
}

func TestBuildInjuryData(t *testing.T) {
	pctx := &Context{Injuries: newFrame(
		[]string{"gsis_id", "week", "season", "report_status", "report_primary_injury", "practice_status"},
		[]string{"00-001", "1.0", "2020", "Questionable", "Knee", "Limited"},
		[]string{"00-001", "1", "2020", "Out", "Knee", "DNP"},
		[]string{"", "2", "2020", "Out", "Ankle", "DNP"},
	)}

	got, err := BuildInjuryData(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildInjuryData: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("rows = %d, want 1 (duplicate key and null key dropped)", got.Len())
	}
	r := got.Row(0)
	if v := r.Get("injuryStatus"); v != "Questionable" {
		t.Errorf("injuryStatus = %q, want Questionable (first occurrence wins)", v)
	}
	if v := r.Get("week"); v != "1" {
		t.Errorf("week = %q, want 1", v)
	}
}

func TestBuildSnapCountsResolvesViaCrosswalk(t *testing.T) {
	pctx := &Context{
		SnapCounts: newFrame(
			[]string{"pfr_player_id", "player", "week", "season", "offense_snaps", "offense_pct", "defense_snaps", "defense_pct"},
			[]string{"SmitJo01", "John Smith", "1", "2020", "60", "0.85", "0", "0"},
			[]string{"NoboSo04", "Unknown Player", "1", "2020", "10", "0.2", "0", "0"},
		),
		Players: newFrame(
			[]string{"gsis_id", "pfr_id", "full_name"},
			[]string{"00-001", "SmitJo01", "John Smith"},
		),
	}

	got, err := BuildSnapCounts(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildSnapCounts: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("rows = %d, want 1 (unmapped player dropped by the key filter)", got.Len())
	}
	r := got.Row(0)
	if v := r.Get("playerID"); v != "00-001" {
		t.Errorf("playerID = %q, want 00-001", v)
	}
	if v := r.Get("offenseSnaps"); v != "60" {
		t.Errorf("offenseSnaps = %q, want 60", v)
	}
}

func TestBuildTradeTableHashesBothTeams(t *testing.T) {
	pctx := &Context{Trades: newFrame(
		[]string{"trade_id", "season", "trade_date", "gave", "received", "pfr_id"},
		[]string{"t1", "2018", "2018-10-22", "OAK", "DAL", "CoopAm00"},
	)}

	got, err := BuildTradeTable(pctx, discardLogger())
	if err != nil {
		t.Fatalf("BuildTradeTable: %v", err)
	}
	if !reflect.DeepEqual(got.Columns(), TradeColumns) {
		t.Fatalf("columns = %v, want %v", got.Columns(), TradeColumns)
	}
	r := got.Row(0)
	if v := r.Get("team_gave"); v != teamIDOf("LV") {
		t.Errorf("team_gave = %q, want the canonical LV id", v)
	}
	if v := r.Get("team_received"); v != teamIDOf("DAL") {
		t.Errorf("team_received = %q, want the DAL id", v)
	}
	if v := r.Get("playerID"); v != "CoopAm00" {
		t.Errorf("playerID = %q, want CoopAm00", v)
	}
}
