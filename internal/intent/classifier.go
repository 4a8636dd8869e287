package intent

import "strings"

// keywords lists the substrings that score for each intent. No keyword contains a keyword
// of another intent, so text built from a single intent's keywords always classifies as
// that intent. "eat" and "train" are deliberately absent: they occur inside "weather"
// and contain "rain".
var keywords = map[Intent][]string{
	Devotional:    {"temple", "spiritual", "prayer", "ashram", "devotional", "meditation", "peace", "church", "aarti"},
	Adventure:     {"adventure", "beach", "diving", "water sports", "thrilling", "exciting", "outdoor", "kayak", "surf", "parasail"},
	Culture:       {"culture", "museum", "history", "heritage", "french", "colonial", "architecture", "gallery"},
	Food:          {"food", "restaurant", "cuisine", "dining", "meal", "hungry", "breakfast", "lunch", "dinner", "cafe", "eating"},
	Transport:     {"bike", "rental", "transport", "vehicle", "scooter", "travel", "taxi", "rickshaw", "bus"},
	Itinerary:     {"itinerary", "plan", "schedule", "route", "trip", "tour", "visit"},
	Budget:        {"budget", "cheap", "affordable", "cost", "price", "money", "expense", "expensive"},
	Weather:       {"weather", "rain", "sunny", "climate", "forecast", "temperature", "humid"},
	Party:         {"party", "nightlife", "club", "bar", "music", "dance", "drinks", "pub"},
	Events:        {"event", "festival", "celebration", "show", "performance", "concert"},
	Accommodation: {"hotel", "stay", "accommodation", "room", "lodge", "guesthouse", "hostel"},
}

// Keywords returns a copy of the keyword list for in. General has none.
func Keywords(in Intent) []string {
	return append([]string(nil), keywords[in]...)
}

// Classify maps text to the intent with the most keyword hits. Matching is plain
// substring containment on the lower-cased text. An exact tie goes to the intent declared
// first; text with no hits is General.
func Classify(text string) Intent {
	lower := strings.ToLower(text)

	best, bestScore := General, 0
	for _, in := range All() {
		score := Score(lower, in)
		if score > bestScore {
			best, bestScore = in, score
		}
	}
	return best
}

// Score counts how many of in's keywords occur in text. text must already be lower-cased.
func Score(text string, in Intent) int {
	score := 0
	for _, kw := range keywords[in] {
		if strings.Contains(text, kw) {
			score++
		}
	}
	return score
}

var (
	positiveWords = []string{"good", "great", "amazing", "love", "beautiful", "wonderful", "excellent"}
	negativeWords = []string{"bad", "terrible", "awful", "hate", "horrible", "disappointing"}
)

// Sentiment returns a rough polarity score in [-1, 1]: +0.1 per positive word present,
// -0.1 per negative word present.
func Sentiment(text string) float64 {
	lower := strings.ToLower(text)
	hits := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			hits++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			hits--
		}
	}
	return max(-1, min(1, float64(hits)/10))
}
