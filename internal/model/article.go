package model

// Article is a normalized news item as returned by the news function.
type Article struct {
	Title   string  `json:"title"`
	Source  string  `json:"source"`
	Summary string  `json:"summary"`
	Topic   string  `json:"topic"`
	Image   *string `json:"image"`
	Link    string  `json:"link"`
	PubDate string  `json:"pubDate"`
}

// ArticleInput is the subset of an Article a lesson is generated from.
type ArticleInput struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Summary string `json:"summary"`
}
