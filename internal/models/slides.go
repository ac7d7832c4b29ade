package models

import (
	"regexp"
	"strings"
)

// Типы медиа для слайдов
const (
	MediaImage = "image"
	MediaVideo = "video"
)

var videoExtPattern = regexp.MustCompile(`(?i)\.(mp4|webm|ogg|mov)$`)

// DetectMediaType определяет тип медиа по расширению файла
func DetectMediaType(src string) string {
	if videoExtPattern.MatchString(strings.TrimSpace(src)) {
		return MediaVideo
	}
	return MediaImage
}

// HeroSlide представляет слайд карусели на главной странице
type HeroSlide struct {
	ID       string `json:"id"`       // уникальный идентификатор
	Src      string `json:"src"`      // URL изображения или видео
	Type     string `json:"type"`     // image | video
	Title    string `json:"title"`    // заголовок поверх слайда
	Subtitle string `json:"subtitle"` // подзаголовок
	Link     string `json:"link"`     // ссылка по клику
	Order    int    `json:"order"`    // позиция в карусели (0..N-1)
}

func (s *HeroSlide) GetID() string      { return s.ID }
func (s *HeroSlide) SetID(id string)    { s.ID = id }
func (s *HeroSlide) GetOrder() int      { return s.Order }
func (s *HeroSlide) SetOrder(order int) { s.Order = order }

// ProfileSlide представляет слайд в баннере профиля
type ProfileSlide struct {
	ID      string `json:"id"`
	Src     string `json:"src"`
	Type    string `json:"type"`
	Caption string `json:"caption"`
	Order   int    `json:"order"`
}

func (s *ProfileSlide) GetID() string      { return s.ID }
func (s *ProfileSlide) SetID(id string)    { s.ID = id }
func (s *ProfileSlide) GetOrder() int      { return s.Order }
func (s *ProfileSlide) SetOrder(order int) { s.Order = order }

// SocialLink представляет ссылку на социальную сеть
type SocialLink struct {
	ID          string `json:"id"`
	Name        string `json:"name"`        // отображаемое название сети
	URL         string `json:"url"`         // адрес профиля, пустой если не заполнен
	Description string `json:"description"` // короткое описание
	Enabled     bool   `json:"enabled"`     // показывать ли на сайте
	Order       int    `json:"order"`
}

func (l *SocialLink) GetID() string      { return l.ID }
func (l *SocialLink) SetID(id string)    { l.ID = id }
func (l *SocialLink) GetOrder() int      { return l.Order }
func (l *SocialLink) SetOrder(order int) { l.Order = order }

// DefaultSocialLinks возвращает набор сетей, который отдается до первого сохранения
func DefaultSocialLinks() []SocialLink {
	return []SocialLink{
		{ID: "twitter", Name: "X (Twitter)", Description: "Opiniones y debates en tiempo real", Enabled: true, Order: 0},
		{ID: "instagram", Name: "Instagram", Description: "Contenido visual y stories", Enabled: true, Order: 1},
		{ID: "youtube", Name: "YouTube", Description: "Videos, análisis y ensayos", Enabled: true, Order: 2},
		{ID: "tiktok", Name: "TikTok", Description: "Clips cortos y tendencias", Enabled: true, Order: 3},
		{ID: "spotify", Name: "Spotify", Description: "Playlists y podcast", Enabled: true, Order: 4},
		{ID: "threads", Name: "Threads", Description: "Conversaciones y comunidad", Enabled: true, Order: 5},
	}
}
