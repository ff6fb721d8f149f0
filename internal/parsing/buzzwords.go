package parsing

// defaultBuzzwords are resume and job-ad filler terms that never name a skill.
// Hyphenated entries are cleaned the same way as text, so "world-class"
// matches the token "worldclass".
var defaultBuzzwords = []string{
	"synergy", "paradigm", "innovative", "world-class", "cutting-edge",
	"best-of-breed", "mission-critical", "value-added", "proactive",
	"dynamic", "team-player", "go-getter", "solution-oriented",
	"results-driven", "fast-paced", "high-performing", "detail-oriented",
	"self-motivated", "self-starter", "passionate", "rockstar", "ninja",
	"etc",
}
