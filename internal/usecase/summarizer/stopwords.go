package summarizer

// stopWords are common English function words ignored by the frequency table
var stopWords = toSet([]string{
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "day", "get", "has", "him",
	"his", "how", "man", "new", "now", "old", "see", "two", "way", "who",
	"boy", "did", "its", "let", "put", "say", "she", "too", "use", "that",
	"with", "have", "this", "will", "your", "from", "they", "know", "want", "been",
	"good", "much", "some", "time", "very", "when", "come", "here", "just", "like",
	"long", "make", "many", "over", "such", "take", "than", "them", "well", "were",
	"what", "into", "also", "then", "there", "their", "these", "those", "would", "could",
	"should", "about", "after", "again", "before", "being", "below", "between", "both", "during",
	"each", "more", "most", "other", "same", "only", "own", "under", "until", "while",
	"which", "where", "whom", "why", "because", "does", "doing", "further", "once", "yourself",
	"itself", "ourselves", "themselves", "through", "above", "against", "off", "yes", "okay", "yeah",
	"gonna", "really", "thing", "things", "going", "think", "said", "got",
})

// importanceKeywords mark sentences likely to carry a decision or an action
var importanceKeywords = toSet([]string{
	"important", "key", "decision", "decided", "decide", "action", "actions",
	"agreed", "agree", "deadline", "priority", "must", "need", "needs",
	"next", "goal", "plan", "follow", "assign", "assigned", "owner",
	"risk", "blocker", "deliver", "launch", "approve", "approved",
})

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
