package catalog

import "github.com/alanyoungcy/sportsarb/internal/domain"

func team(name, code string, aliases ...string) domain.Participant {
	return domain.Participant{CanonicalName: name, ShortCode: code, Aliases: aliases}
}

// Shared city names (Los Angeles, New York) are only listed in the
// disambiguated form the venues print, e.g. "Los Angeles R".
var nflTeams = []domain.Participant{
	team("Arizona Cardinals", "ARI", "arizona", "cardinals"),
	team("Atlanta Falcons", "ATL", "atlanta", "falcons"),
	team("Baltimore Ravens", "BAL", "baltimore", "ravens"),
	team("Buffalo Bills", "BUF", "buffalo", "bills"),
	team("Carolina Panthers", "CAR", "carolina", "panthers"),
	team("Chicago Bears", "CHI", "chicago", "bears"),
	team("Cincinnati Bengals", "CIN", "cincinnati", "bengals"),
	team("Cleveland Browns", "CLE", "cleveland", "browns"),
	team("Dallas Cowboys", "DAL", "dallas", "cowboys"),
	team("Denver Broncos", "DEN", "denver", "broncos"),
	team("Detroit Lions", "DET", "detroit", "lions"),
	team("Green Bay Packers", "GB", "green bay", "packers"),
	team("Houston Texans", "HOU", "houston", "texans"),
	team("Indianapolis Colts", "IND", "indianapolis", "colts"),
	team("Jacksonville Jaguars", "JAX", "jacksonville", "jaguars", "jac"),
	team("Kansas City Chiefs", "KC", "kansas city", "chiefs"),
	team("Las Vegas Raiders", "LV", "las vegas", "raiders"),
	team("Los Angeles Chargers", "LAC", "los angeles c", "la chargers", "chargers"),
	team("Los Angeles Rams", "LAR", "los angeles r", "la rams", "rams"),
	team("Miami Dolphins", "MIA", "miami", "dolphins"),
	team("Minnesota Vikings", "MIN", "minnesota", "vikings"),
	team("New England Patriots", "NE", "new england", "patriots"),
	team("New Orleans Saints", "NO", "new orleans", "saints"),
	team("New York Giants", "NYG", "new york g", "ny giants", "giants"),
	team("New York Jets", "NYJ", "new york j", "ny jets", "jets"),
	team("Philadelphia Eagles", "PHI", "philadelphia", "eagles"),
	team("Pittsburgh Steelers", "PIT", "pittsburgh", "steelers"),
	team("San Francisco 49ers", "SF", "san francisco", "49ers"),
	team("Seattle Seahawks", "SEA", "seattle", "seahawks"),
	team("Tampa Bay Buccaneers", "TB", "tampa bay", "buccaneers", "bucs"),
	team("Tennessee Titans", "TEN", "tennessee", "titans"),
	team("Washington Commanders", "WAS", "washington", "commanders", "wsh"),
}

var nbaTeams = []domain.Participant{
	team("Atlanta Hawks", "ATL", "atlanta", "hawks"),
	team("Boston Celtics", "BOS", "boston", "celtics"),
	team("Brooklyn Nets", "BKN", "brooklyn", "nets", "bkn"),
	team("Charlotte Hornets", "CHA", "charlotte", "hornets"),
	team("Chicago Bulls", "CHI", "chicago", "bulls"),
	team("Cleveland Cavaliers", "CLE", "cleveland", "cavaliers", "cavs"),
	team("Dallas Mavericks", "DAL", "dallas", "mavericks", "mavs"),
	team("Denver Nuggets", "DEN", "denver", "nuggets"),
	team("Detroit Pistons", "DET", "detroit", "pistons"),
	team("Golden State Warriors", "GSW", "golden state", "warriors", "gs"),
	team("Houston Rockets", "HOU", "houston", "rockets"),
	team("Indiana Pacers", "IND", "indiana", "pacers"),
	team("Los Angeles Clippers", "LAC", "los angeles c", "la clippers", "clippers"),
	team("Los Angeles Lakers", "LAL", "los angeles l", "la lakers", "lakers"),
	team("Memphis Grizzlies", "MEM", "memphis", "grizzlies"),
	team("Miami Heat", "MIA", "miami", "heat"),
	team("Milwaukee Bucks", "MIL", "milwaukee", "bucks"),
	team("Minnesota Timberwolves", "MIN", "minnesota", "timberwolves", "wolves"),
	team("New Orleans Pelicans", "NOP", "new orleans", "pelicans"),
	team("New York Knicks", "NYK", "new york", "knicks"),
	team("Oklahoma City Thunder", "OKC", "oklahoma city", "thunder"),
	team("Orlando Magic", "ORL", "orlando", "magic"),
	team("Philadelphia 76ers", "PHI", "philadelphia", "76ers", "sixers"),
	team("Phoenix Suns", "PHX", "phoenix", "suns"),
	team("Portland Trail Blazers", "POR", "portland", "trail blazers", "blazers"),
	team("Sacramento Kings", "SAC", "sacramento", "kings"),
	team("San Antonio Spurs", "SAS", "san antonio", "spurs"),
	team("Toronto Raptors", "TOR", "toronto", "raptors"),
	team("Utah Jazz", "UTA", "utah", "jazz"),
	team("Washington Wizards", "WAS", "washington", "wizards"),
}
