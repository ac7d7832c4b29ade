package content

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/folio/internal/models"
)

const delimiter = "---"

// frontmatter поля заголовка Markdown-файла в порядке записи
type frontmatter struct {
	Title    string   `yaml:"title"`
	Heading  string   `yaml:"heading,omitempty"`
	Date     string   `yaml:"date"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags,flow"`
	Type     string   `yaml:"type"`
	Excerpt  string   `yaml:"excerpt"`
	Cover    string   `yaml:"cover"`
	Featured bool     `yaml:"featured"`
}

// render собирает файл: frontmatter, пустая строка, "# heading" при наличии, текст
func render(p models.Post) ([]byte, error) {
	fm := frontmatter{
		Title:    p.Title,
		Heading:  p.Heading,
		Date:     p.Date,
		Category: p.Category,
		Tags:     p.Tags,
		Type:     p.Type,
		Excerpt:  p.Excerpt,
		Cover:    p.Cover,
		Featured: p.Featured,
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	buf.Write(header)
	buf.WriteString(delimiter + "\n\n")
	if p.Heading != "" {
		buf.WriteString("# " + p.Heading + "\n\n")
	}
	buf.WriteString(p.Content)

	return buf.Bytes(), nil
}

// parse разбирает файл поста. Файл без frontmatter целиком считается текстом.
// Строка "# heading", добавленная render, из текста убирается.
func parse(slug string, data []byte) (models.Post, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	post := models.Post{Slug: slug, Title: slug, Tags: []string{}}

	if !strings.HasPrefix(text, delimiter+"\n") {
		post.Content = text
		return post, nil
	}

	rest := text[len(delimiter)+1:]
	var header, body string
	if strings.HasPrefix(rest, delimiter+"\n") || rest == delimiter {
		header, body = "", strings.TrimPrefix(rest, delimiter)
	} else {
		end := strings.Index(rest, "\n"+delimiter+"\n")
		if end == -1 {
			if !strings.HasSuffix(rest, "\n"+delimiter) {
				return post, fmt.Errorf("unterminated frontmatter in %s", slug)
			}
			end = len(rest) - len(delimiter) - 1
		}
		header = rest[:end]
		body = rest[min(end+len(delimiter)+2, len(rest)):]
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return post, fmt.Errorf("failed to parse frontmatter in %s: %w", slug, err)
	}

	body = strings.TrimLeft(body, "\n")
	if fm.Heading != "" {
		if h := "# " + fm.Heading; strings.HasPrefix(body, h+"\n") || body == h {
			body = strings.TrimLeft(strings.TrimPrefix(body, h), "\n")
		}
	}

	if fm.Title != "" {
		post.Title = fm.Title
	}
	post.Heading = fm.Heading
	post.Date = fm.Date
	post.Category = fm.Category
	post.Type = fm.Type
	post.Excerpt = fm.Excerpt
	post.Cover = fm.Cover
	post.Featured = fm.Featured
	if fm.Tags != nil {
		post.Tags = fm.Tags
	}
	post.Content = body

	return post, nil
}
