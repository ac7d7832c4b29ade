package models

// Profile представляет баннер профиля: текст и слайды
type Profile struct {
	Name     string         `json:"name"`
	Subtitle string         `json:"subtitle"`
	Bio      string         `json:"bio"`
	Slides   []ProfileSlide `json:"slides"`
}

// DefaultProfile возвращает профиль до первого сохранения
func DefaultProfile() Profile {
	return Profile{
		Name:     "Miguel Ángel Álvarez Silva",
		Subtitle: "Estudiante de Ingeniería · Creador de Archivo ALSIL",
		Slides:   []ProfileSlide{},
	}
}

// Author представляет карточку автора под постами
type Author struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Bio     string `json:"bio"`
	Photo   string `json:"photo"`
	Email   string `json:"email"`
	Twitter string `json:"twitter"`
}

// DefaultAuthor возвращает карточку автора до первого сохранения
func DefaultAuthor() Author {
	return Author{
		Name: "Miguel Ángel Álvarez Silva",
		Role: "Columnista · Archivo ALSIL",
		Bio:  "Estudiante de ingeniería, escritor y creador de Archivo ALSIL.",
	}
}

// LibraryItem представляет документ в библиотеке
type LibraryItem struct {
	Pages        *int     `json:"pages,omitempty"`
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	FileName     string   `json:"fileName"`
	OriginalName string   `json:"originalName"`
	URL          string   `json:"url"`
	CoverURL     string   `json:"coverUrl,omitempty"`
	UploadedAt   string   `json:"uploadedAt"`
	Tags         []string `json:"tags"`
	FileSize     int64    `json:"fileSize"`
}
