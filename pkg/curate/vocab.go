package curate

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"gopkg.in/yaml.v3"
)

// defaultAnimals holds the recognized animal tokens, grouped the way
// the asset set was tuned.
var defaultAnimals = []string{
	// Pets and farm
	"cat", "kitten", "dog", "puppy", "cow", "cattle", "bull", "calf", "yak", "ox",
	"buffalo", "water", "goat", "sheep", "ram", "ewe", "pig", "boar", "hog",
	"horse", "pony", "donkey", "mule", "llama", "alpaca", "camel",
	// Big cats and canids
	"lion", "tiger", "leopard", "cheetah", "jaguar", "panther", "lynx", "puma",
	"cougar", "bobcat", "fox", "wolf", "jackal", "dingo",
	// Bears
	"bear", "panda", "koala",
	// Primates
	"monkey", "baboon", "mandrill", "gorilla", "chimp", "chimpanzee",
	"orangutan", "lemur",
	// Hooved animals
	"zebra", "giraffe", "elephant", "rhino", "rhinoceros", "hippo",
	"hippopotamus", "deer", "elk", "moose", "ibex", "tahr", "chamois",
	"antelope", "gazelle", "gnu", "wildebeest", "pronghorn", "oryx", "addax",
	"kob", "topi", "kudu", "bongo", "sable", "roan", "hartebeest", "springbok",
	// Others
	"kangaroo", "wallaby", "badger", "otter", "raccoon", "skunk", "hyena",
	"weasel", "marten", "beaver", "hare", "rabbit", "capybara",
}

// defaultBirds is kept as its own set so the selector can enforce a
// minimum number of bird images. Every bird token is also an animal
// token.
var defaultBirds = []string{
	"bird", "eagle", "hawk", "falcon", "owl", "duck", "goose", "swan",
	"peacock", "parrot", "macaw", "penguin", "puffin", "ibis", "crane",
	"heron", "egret", "kingfisher", "hoopoe", "bee", "bee-eater", "bulbul",
	"woodpecker", "starling", "sparrow", "finch", "tern",
}

// defaultStopwords are filename noise tokens that never identify a
// species: filler words, location and photography terms, and format
// suffixes that survive extension stripping.
var defaultStopwords = []string{
	"the", "and", "or", "of", "in", "on", "with", "at", "to", "from", "by",
	"for", "near", "under", "over", "between", "around",
	"male", "female", "adult", "juvenile", "young", "baby", "close", "closeup",
	"close-up", "head", "portrait", "nature", "wildlife",
	"national", "park", "reserve", "forest", "zoo", "sanctuary", "lake",
	"river", "mountain", "valley", "island", "beach", "desert",
	"golden", "hour", "sunset", "sunrise", "night", "day", "sky", "clouds",
	"grass", "tree", "flowers", "garden",
	"photo", "photograph", "picture", "image", "edit", "cropped", "crop",
	"version", "final", "copy",
	"jpg", "jpeg", "png", "gif", "tif", "tiff",
}

// defaultSynonyms canonicalizes user-supplied quota and ensure keys:
// plurals, common misspellings, and a few hand-mapped aliases.
var defaultSynonyms = map[string]string{
	"cats": "cat", "dogs": "dog", "lions": "lion", "tigers": "tiger",
	"bears": "bear", "elephants": "elephant", "zebras": "zebra",
	"giraffes": "giraffe", "monkeys": "monkey", "rabbits": "rabbit",
	"horses": "horse", "foxes": "fox", "wolves": "wolf", "birds": "bird",
	"eagles": "eagle", "owls": "owl", "ducks": "duck", "geese": "goose",
	"hippos": "hippo", "rhinos": "rhino", "pandas": "panda",
	"kitty": "cat", "bunny": "rabbit", "elefant": "elephant",
	"girafe": "giraffe", "cheeta": "cheetah", "leapord": "leopard",
	"grizzly": "bear",
}

// Vocabulary holds the token sets that drive species key derivation and
// selection. It is immutable after construction so a single instance
// can back both key derivation and selection.
type Vocabulary struct {
	animals   map[string]bool
	stopwords map[string]bool
	birds     map[string]bool
	synonyms  map[string]string
	tokens    []string
}

// NewVocabulary builds a vocabulary from explicit token lists. All
// tokens are lowercased; bird tokens are folded into the animal set so
// a bird is always a recognized animal.
func NewVocabulary(animals, stopwords, birds []string, synonyms map[string]string) *Vocabulary {
	v := &Vocabulary{
		animals:   make(map[string]bool, len(animals)+len(birds)),
		stopwords: make(map[string]bool, len(stopwords)),
		birds:     make(map[string]bool, len(birds)),
		synonyms:  make(map[string]string, len(synonyms)),
	}

	for _, t := range animals {
		v.animals[strings.ToLower(t)] = true
	}
	for _, t := range birds {
		t = strings.ToLower(t)
		v.birds[t] = true
		v.animals[t] = true
	}
	for _, t := range stopwords {
		v.stopwords[strings.ToLower(t)] = true
	}
	for from, to := range synonyms {
		v.synonyms[strings.ToLower(from)] = strings.ToLower(to)
	}

	v.tokens = make([]string, 0, len(v.animals))
	for t := range v.animals {
		v.tokens = append(v.tokens, t)
	}
	sort.Strings(v.tokens)

	return v
}

// DefaultVocabulary returns the built-in animal, bird, stopword, and
// synonym sets.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultAnimals, defaultStopwords, defaultBirds, defaultSynonyms)
}

// IsAnimal reports whether token is a recognized animal token.
func (v *Vocabulary) IsAnimal(token string) bool {
	return v.animals[token]
}

// IsStopword reports whether token is filename noise.
func (v *Vocabulary) IsStopword(token string) bool {
	return v.stopwords[token]
}

// IsBird reports whether token is a bird token.
func (v *Vocabulary) IsBird(token string) bool {
	return v.birds[token]
}

// Canonical lowercases a user-supplied key and resolves it through the
// synonym table. Keys derived from filenames are never canonicalized,
// so a quota matches a file only when the filename tokenizes to the
// canonical form itself.
func (v *Vocabulary) Canonical(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if to, ok := v.synonyms[k]; ok {
		return to
	}
	return k
}

// Suggest returns the known animal token closest to key and its
// Jaro-Winkler similarity score.
func (v *Vocabulary) Suggest(key string) (string, float64) {
	best := ""
	bestScore := 0.0

	for _, t := range v.tokens {
		score := float64(edlib.JaroWinklerSimilarity(key, t))
		if score > bestScore {
			best = t
			bestScore = score
		}
	}

	return best, bestScore
}

// Tokens returns the sorted animal tokens, birds included.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.tokens...)
}

// vocabularyFile is the YAML shape of a custom vocabulary. A section
// that is present replaces the built-in set wholesale; an omitted
// section keeps the default.
type vocabularyFile struct {
	Animals   []string          `yaml:"animals"`
	Stopwords []string          `yaml:"stopwords"`
	Birds     []string          `yaml:"birds"`
	Synonyms  map[string]string `yaml:"synonyms"`
}

// LoadVocabulary reads a vocabulary override file. An empty path
// returns the defaults.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var vf vocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	animals := defaultAnimals
	if len(vf.Animals) > 0 {
		animals = vf.Animals
	}
	stopwords := defaultStopwords
	if len(vf.Stopwords) > 0 {
		stopwords = vf.Stopwords
	}
	birds := defaultBirds
	if len(vf.Birds) > 0 {
		birds = vf.Birds
	}
	synonyms := defaultSynonyms
	if len(vf.Synonyms) > 0 {
		synonyms = vf.Synonyms
	}

	return NewVocabulary(animals, stopwords, birds, synonyms), nil
}
