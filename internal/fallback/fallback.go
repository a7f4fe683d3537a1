package fallback

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/phrazzld/scry-feed/internal/domain"
	"golang.org/x/crypto/blake2b"
)

// topicPlaceholder is replaced by the display topic in templates.
const topicPlaceholder = "{topic}"

// idLength is the number of hex characters in a snippet id.
const idLength = 8

var defaultTemplates = []string{
	"Key insight: {topic} becomes more powerful when understood conceptually rather than memorized.",
	"A useful habit when learning {topic} is to explain one idea in your own words before moving on.",
	"Most experts in {topic} started by mastering a handful of fundamentals and revisiting them often.",
	"Connecting {topic} to something you already know makes new details far easier to retain.",
	"Small, regular practice sessions beat occasional marathons when building skill in {topic}.",
	"Common misconceptions about {topic} usually come from oversimplified first explanations.",
	"Asking \"why does this work?\" is one of the fastest ways to go deeper into {topic}.",
	"The history of {topic} shows how ideas evolve as people test and refine them.",
	"Teaching {topic} to someone else quickly reveals which parts you truly understand.",
	"Real-world examples turn abstract parts of {topic} into something concrete and memorable.",
	"Progress in {topic} often comes from noticing patterns that repeat across different cases.",
	"Comparing two approaches within {topic} highlights the trade-offs each one makes.",
	"Revisiting {topic} after a short break helps move knowledge into long-term memory.",
	"Every field that touches {topic} adds its own vocabulary; learning the key terms pays off early.",
}

// Rule maps a keyword set to the sub-topic options offered for matching topics.
// Single-word keywords match whole words; multi-word keywords match phrases.
type Rule struct {
	Name     string
	Keywords []string
	Options  []domain.SubTopicOption
}

var defaultRules = []Rule{
	{
		Name:     "physics",
		Keywords: []string{"physics", "quantum", "relativity", "mechanics", "thermodynamics", "gravity", "particle", "astrophysics"},
		Options: []domain.SubTopicOption{
			{Title: "Fundamental forces", Description: "How gravity, electromagnetism and the nuclear forces shape {topic}."},
			{Title: "Famous experiments", Description: "The experiments that changed how we think about {topic}."},
			{Title: "Everyday physics", Description: "Where {topic} shows up in daily life."},
			{Title: "Open questions", Description: "What researchers still do not understand about {topic}."},
		},
	},
	{
		Name:     "science",
		Keywords: []string{"science", "scientific", "biology", "chemistry", "astronomy", "genetics", "ecology", "evolution", "neuroscience"},
		Options: []domain.SubTopicOption{
			{Title: "Key discoveries", Description: "Milestones that defined {topic}."},
			{Title: "The scientific method", Description: "How evidence is gathered and tested in {topic}."},
			{Title: "Notable scientists", Description: "People whose work shaped {topic}."},
			{Title: "Current research", Description: "Where {topic} is heading next."},
		},
	},
	{
		Name:     "ai",
		Keywords: []string{"ai", "artificial intelligence", "machine learning", "deep learning", "neural network", "neural networks", "llm", "llms", "robotics"},
		Options: []domain.SubTopicOption{
			{Title: "How models learn", Description: "Training, data and feedback behind {topic}."},
			{Title: "Ethics and safety", Description: "Risks and responsibilities that come with {topic}."},
			{Title: "Real-world applications", Description: "Where {topic} is already being used."},
			{Title: "Limitations", Description: "What {topic} still cannot do well."},
		},
	},
}

var genericOptions = []domain.SubTopicOption{
	{Title: "Fundamentals", Description: "The core ideas behind {topic}."},
	{Title: "History", Description: "How {topic} developed over time."},
	{Title: "Practical applications", Description: "Ways to use {topic} in everyday life."},
	{Title: "Common mistakes", Description: "Pitfalls people run into with {topic}."},
}

// Library produces fallback snippets and options. The zero value is not
// usable; construct with New.
type Library struct {
	templates []string
	rules     []Rule
	generic   []domain.SubTopicOption
}

// New returns a Library with the built-in templates and option rules.
func New() *Library {
	return &Library{
		templates: defaultTemplates,
		rules:     defaultRules,
		generic:   genericOptions,
	}
}

// Fallback returns count snippets about topic and, when wantOptions is set,
// sub-topic options. It is Generate with an empty salt.
func (l *Library) Fallback(topic string, count int, wantOptions bool) ([]string, []domain.SubTopicOption) {
	return l.Generate(topic, count, wantOptions, "")
}

// Generate returns count distinct snippets about topic. Equal inputs always
// give equal outputs; different salts give disjoint snippet sets.
func (l *Library) Generate(topic string, count int, wantOptions bool, salt string) ([]string, []domain.SubTopicOption) {
	display := strings.TrimSpace(topic)
	normalized := domain.NormalizeTopic(topic)

	var snippets []string
	if count > 0 {
		snippets = make([]string, 0, count)
		offset := rotation(salt, len(l.templates))
		for i := 0; i < count; i++ {
			template := l.templates[(offset+i)%len(l.templates)]
			text := strings.ReplaceAll(template, topicPlaceholder, display)
			snippets = append(snippets, text+" ["+snippetID(normalized, salt, i)+"]")
		}
	}

	var options []domain.SubTopicOption
	if wantOptions {
		options = l.Options(topic)
	}

	return snippets, options
}

// Options returns the options of the first rule whose keywords match topic,
// or the generic options when none does.
func (l *Library) Options(topic string) []domain.SubTopicOption {
	display := strings.TrimSpace(topic)

	chosen := l.generic
	if rule, ok := l.match(topic); ok {
		chosen = rule.Options
	}

	n := len(chosen)
	if n > domain.MaxOptions {
		n = domain.MaxOptions
	}
	options := make([]domain.SubTopicOption, 0, n)
	for _, opt := range chosen[:n] {
		options = append(options, domain.SubTopicOption{
			Title:       strings.ReplaceAll(opt.Title, topicPlaceholder, display),
			Description: strings.ReplaceAll(opt.Description, topicPlaceholder, display),
		})
	}
	return options
}

// Category returns the name of the rule matching topic, or "generic".
func (l *Library) Category(topic string) string {
	if rule, ok := l.match(topic); ok {
		return rule.Name
	}
	return "generic"
}

func (l *Library) match(topic string) (Rule, bool) {
	words := tokenize(topic)
	if len(words) == 0 {
		return Rule{}, false
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	phrase := " " + strings.Join(words, " ") + " "

	for _, rule := range l.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(phrase, " "+kw+" ") {
					return rule, true
				}
				continue
			}
			if _, ok := set[kw]; ok {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

// tokenize splits a topic into lowercase words of letters and digits.
func tokenize(topic string) []string {
	return strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '\'' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127
}

func snippetID(normalizedTopic, salt string, index int) string {
	sum := blake2b.Sum256([]byte(normalizedTopic + "\x00" + salt + "\x00" + strconv.Itoa(index)))
	return hex.EncodeToString(sum[:])[:idLength]
}

func rotation(salt string, n int) int {
	if salt == "" || n == 0 {
		return 0
	}
	sum := blake2b.Sum256([]byte(salt))
	return int(sum[0]) % n
}
