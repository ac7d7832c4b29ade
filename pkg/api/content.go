package api

// PostCreatedResponse представляет ответ на создание поста
type PostCreatedResponse struct {
	Slug    string `json:"slug"`    // slug, выведенный из заголовка
	Message string `json:"message"` // сообщение для админки
	Success bool   `json:"success"`
}

// CommentRequest представляет новый комментарий
type CommentRequest struct {
	Slug     string `json:"slug"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	ParentID string `json:"parentId"`
}

// DeleteRequest представляет удаление по id в теле запроса
type DeleteRequest struct {
	ID string `json:"id"`
}
