package models

// Post представляет запись блога, хранящуюся как Markdown с frontmatter
type Post struct {
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`              // имя файла без .md
	Heading  string   `json:"heading,omitempty"` // необязательный заголовок H1 перед текстом
	Date     string   `json:"date"`              // YYYY-MM-DD
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Type     string   `json:"type"` // article, essay, ...
	Excerpt  string   `json:"excerpt"`
	Cover    string   `json:"cover"`
	Featured bool     `json:"featured"`
	Content  string   `json:"content"` // Markdown без frontmatter
}

// Comment представляет комментарий к посту
type Comment struct {
	ParentID *string `json:"parentId"` // nil для комментария верхнего уровня
	ID       string  `json:"id"`
	Author   string  `json:"author"`
	Content  string  `json:"content"`
	Date     string  `json:"date"` // RFC 3339
}
