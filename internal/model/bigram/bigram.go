package bigram

// Bigram is an ordered pair of adjacent tokens. It is comparable and can be
// used directly as a map key; (a, b) and (b, a) are distinct.
type Bigram struct {
	Curr string // Conditioning word
	Next string // Word that followed it
}

// New returns the bigram (curr, next)
func New(curr, next string) Bigram {
	return Bigram{Curr: curr, Next: next}
}

// String renders the bigram in conditional notation: next|curr
func (b Bigram) String() string {
	return b.Next + "|" + b.Curr
}

// Sentence is one distinct cleaned sentence unit of the corpus.
// Occurrences counts how many times the exact cleaned text appeared.
type Sentence struct {
	Text        string   // Cleaned text, before ignore filtering
	Tokens      []string // Lowercased tokens with ignored tokens removed
	Occurrences float64  // Repeat weight applied to bigram counts
}

// ScoredBigram is a candidate bigram with its estimated probability
type ScoredBigram struct {
	Bigram      Bigram
	Count       float64
	Probability float64
}

// Prediction is one ranked next-word suggestion
type Prediction struct {
	Word        string  `json:"word"`
	Probability float64 `json:"probability"`
	Count       float64 `json:"count"`
}

// Matrix is a square table over a phrase's tokens. Values[i][j] belongs to
// the bigram (Rows[i], Cols[j]).
type Matrix struct {
	Rows   []string    `json:"rows"`
	Cols   []string    `json:"cols"`
	Values [][]float64 `json:"values"`
}
