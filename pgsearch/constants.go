package pgsearch

// Option keys accepted by DecodeOptions.
const (
	KeyAgainst     = "against"
	KeyRankedBy    = "ranked_by"
	KeyNormalizing = "normalizing"
	KeyDictionary  = "with_dictionary"
	KeyUsing       = "using"
	KeyQuery       = "query"
)

// RankPlaceholder is replaced by the default rank expression inside ranked_by.
const RankPlaceholder = ":tsearch_rank"

// RankColumn is the alias of the rank expression in the select list.
const RankColumn = "rank"

const DefaultPrimaryKey = "id"

// Bind names used for compiled fragments.
const (
	bindDictionary = "dictionary"
	bindQuery      = "query"
	bindTermPrefix = "term_"
)
