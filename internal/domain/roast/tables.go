// Package roast selects feedback lines and problem recommendations from a
// classification. Selection is table-driven and fully deterministic: equal
// inputs always yield the same output, and ties resolve to the first match
// in table order.
package roast

import (
	"github.com/okian/cpcoach/internal/domain/classify"
	"github.com/okian/cpcoach/internal/domain/model"
)

// tableKey indexes the base roast table.
type tableKey struct {
	acc classify.AccuracyTier
	act classify.ActivityTier
}

// baseLines is the fully enumerated (accuracy tier x activity tier) roast
// table. Every combination has an entry; the selector never falls through.
var baseLines = map[tableKey]string{
	{classify.AccuracyPoor, classify.ActivityActive}:     "You submit a lot and most of it bounces. Quantity is not a strategy.",
	{classify.AccuracyPoor, classify.ActivitySlowing}:    "Low accuracy and fading activity. The judge barely remembers you, and not fondly.",
	{classify.AccuracyPoor, classify.ActivityDormant}:    "Your last burst of wrong answers was so long ago the judge archived them.",
	{classify.AccuracyAverage, classify.ActivityActive}:  "Steady grinder, middling accuracy. Dependably mediocre beats flaky, barely.",
	{classify.AccuracyAverage, classify.ActivitySlowing}: "Average accuracy and the practice schedule of someone who 'will get back to it'.",
	{classify.AccuracyAverage, classify.ActivityDormant}: "Respectable accuracy, fossilized activity. Ratings do not age like wine.",
	{classify.AccuracyStrong, classify.ActivityActive}:   "Sharp and active. The roast material is thin, which is its own kind of boring.",
	{classify.AccuracyStrong, classify.ActivitySlowing}:  "You solve what you attempt, you just barely attempt anymore.",
	{classify.AccuracyStrong, classify.ActivityDormant}:  "Great accuracy, zero momentum. A museum piece of a competitive programmer.",
}

// weakTopicClauses covers topics the roast has a specific jab for.
// Anything else goes through the generic weak clause.
var weakTopicClauses = map[string]string{
	"graph":          "Your graph problems read like you are afraid of edges.",
	"dp":             "Dynamic programming keeps beating you with its own table.",
	"math":           "The math problems are winning, and they are not even trying.",
	"greedy":         "Greedy keeps punishing you for trusting your first instinct.",
	"implementation": "Even plain implementation trips you, which takes dedication.",
	"strings":        "String problems tie you in knots a parser would be ashamed of.",
	"trees":          "Trees: you climb halfway up and fall out.",
}

// strongTopicClauses acknowledges the one thing going well.
var strongTopicClauses = map[string]string{
	"implementation": "Your comfort topic is implementation, the easy mode of competitive programming.",
	"math":           "You lean on math, yet the path to a higher rating stays uncomputed.",
	"greedy":         "Strong at greedy: greedy for easy problems, stingy with effort.",
	"dp":             "A DP specialist who cannot dynamically program a way out of this plateau.",
}

// Fixed-order appended clauses: accuracy base line first, topic clauses,
// then history and comfort clauses.
const (
	genericWeakClause   = "Weakest topic right now: %s. Start there."
	genericStrongClause = "At least %s is pulling its weight."
	ratingDropClause    = "Peaked at %d, now %d. That is a %d-point nosedive."
	comfortSafeClause   = "Solving %d-rated problems with a %d rating. Playing it safe much?"
	comfortReachClause  = "Attempting %d-rated problems at %d. Ambitious, and clearly not working."
	trendFallingClause  = "And the trend line points down. Gravity is undefeated so far."
	noProfileDataClause = "Not enough submissions to roast properly. Even your data is lazy."
)

// interviewTopics is the fixed interview allowlist, in selection order.
var interviewTopics = []string{"arrays", "strings", "linked-list", "trees", "graph", "dp"}

// ratingBand is a recommended difficulty range for contest practice.
type ratingBand struct {
	lo, hi int
}

// contestBands maps a current rating ceiling to a practice band.
// Checked in order; the last entry catches everything above.
var contestBands = []struct {
	maxRating int
	band      ratingBand
}{
	{1200, ratingBand{800, 1200}},
	{1600, ratingBand{1000, 1400}},
	{1900, ratingBand{1200, 1600}},
	{1 << 30, ratingBand{1400, 2000}},
}

func bandFor(rating int) ratingBand {
	for _, b := range contestBands {
		if rating < b.maxRating {
			return b.band
		}
	}
	return contestBands[len(contestBands)-1].band
}

// catalog is the curated problem table, keyed by topic. Entries within a
// topic are ordered easiest first; selection walks them in order.
var catalog = map[string][]model.ProblemRef{
	"arrays": {
		{Platform: model.LeetCode, Name: "Two Sum", Topic: "arrays", Difficulty: 800, URL: "https://leetcode.com/problems/two-sum/"},
		{Platform: model.LeetCode, Name: "Product of Array Except Self", Topic: "arrays", Difficulty: 1200, URL: "https://leetcode.com/problems/product-of-array-except-self/"},
		{Platform: model.Codeforces, Name: "Maximum Subarray (Kadane practice)", Topic: "arrays", Difficulty: 1400, URL: "https://codeforces.com/problemset/problem/1155/D"},
	},
	"strings": {
		{Platform: model.LeetCode, Name: "Valid Parentheses", Topic: "strings", Difficulty: 800, URL: "https://leetcode.com/problems/valid-parentheses/"},
		{Platform: model.LeetCode, Name: "Longest Substring Without Repeating Characters", Topic: "strings", Difficulty: 1200, URL: "https://leetcode.com/problems/longest-substring-without-repeating-characters/"},
		{Platform: model.Codeforces, Name: "Password (prefix function)", Topic: "strings", Difficulty: 1700, URL: "https://codeforces.com/problemset/problem/126/B"},
	},
	"linked-list": {
		{Platform: model.LeetCode, Name: "Reverse Linked List", Topic: "linked-list", Difficulty: 800, URL: "https://leetcode.com/problems/reverse-linked-list/"},
		{Platform: model.LeetCode, Name: "Merge Two Sorted Lists", Topic: "linked-list", Difficulty: 900, URL: "https://leetcode.com/problems/merge-two-sorted-lists/"},
	},
	"trees": {
		{Platform: model.LeetCode, Name: "Binary Tree Inorder Traversal", Topic: "trees", Difficulty: 900, URL: "https://leetcode.com/problems/binary-tree-inorder-traversal/"},
		{Platform: model.LeetCode, Name: "Lowest Common Ancestor of a Binary Tree", Topic: "trees", Difficulty: 1400, URL: "https://leetcode.com/problems/lowest-common-ancestor-of-a-binary-tree/"},
	},
	"graph": {
		{Platform: model.LeetCode, Name: "Number of Islands", Topic: "graph", Difficulty: 1200, URL: "https://leetcode.com/problems/number-of-islands/"},
		{Platform: model.Codeforces, Name: "King's Path (BFS)", Topic: "graph", Difficulty: 1500, URL: "https://codeforces.com/problemset/problem/242/C"},
		{Platform: model.Codeforces, Name: "Dijkstra?", Topic: "graph", Difficulty: 1700, URL: "https://codeforces.com/problemset/problem/20/C"},
	},
	"dp": {
		{Platform: model.LeetCode, Name: "Climbing Stairs", Topic: "dp", Difficulty: 800, URL: "https://leetcode.com/problems/climbing-stairs/"},
		{Platform: model.LeetCode, Name: "Coin Change", Topic: "dp", Difficulty: 1300, URL: "https://leetcode.com/problems/coin-change/"},
		{Platform: model.Codeforces, Name: "Boredom", Topic: "dp", Difficulty: 1500, URL: "https://codeforces.com/problemset/problem/455/A"},
	},
	"math": {
		{Platform: model.Codeforces, Name: "Divisibility Problem", Topic: "math", Difficulty: 800, URL: "https://codeforces.com/problemset/problem/1328/A"},
		{Platform: model.Codeforces, Name: "Modular Exponentiation practice", Topic: "math", Difficulty: 1400, URL: "https://codeforces.com/problemset/problem/615/D"},
	},
	"greedy": {
		{Platform: model.Codeforces, Name: "Dragons", Topic: "greedy", Difficulty: 1000, URL: "https://codeforces.com/problemset/problem/230/A"},
		{Platform: model.CodeChef, Name: "Chef and Notebooks", Topic: "greedy", Difficulty: 1200, URL: "https://www.codechef.com/problems/CNOTE"},
	},
	"data-structures": {
		{Platform: model.Codeforces, Name: "Sereja and Brackets (segment tree)", Topic: "data-structures", Difficulty: 1600, URL: "https://codeforces.com/problemset/problem/380/C"},
		{Platform: model.Codeforces, Name: "Pashmak and Parmida's problem (Fenwick)", Topic: "data-structures", Difficulty: 1800, URL: "https://codeforces.com/problemset/problem/459/D"},
	},
	"implementation": {
		{Platform: model.Codeforces, Name: "Way Too Long Words", Topic: "implementation", Difficulty: 800, URL: "https://codeforces.com/problemset/problem/71/A"},
		{Platform: model.CodeChef, Name: "ATM", Topic: "implementation", Difficulty: 900, URL: "https://www.codechef.com/problems/HS08TEST"},
	},
}

// contestTopics lists topics emphasized for contest preparation, in
// selection order.
var contestTopics = []string{"math", "data-structures", "graph", "dp", "greedy"}

// generalStarterTopics seeds recommendations for profiles with no topic
// history at all.
var generalStarterTopics = []string{"implementation", "arrays", "math"}
