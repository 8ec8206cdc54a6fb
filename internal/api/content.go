package api

import (
	"context"
	"net/http"
	"net/url"

	"annfsu/app/internal/models"
)

func (c *Client) Content(ctx context.Context, contentType models.ContentType) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := c.do(ctx, http.MethodGet, "/api/content/"+string(contentType), nil, &items)
	return items, err
}

type ContentInput struct {
	Type      models.ContentType `json:"type"`
	TitleNe   string             `json:"title_ne"`
	ContentNe string             `json:"content_ne"`
	Images    []string           `json:"images,omitempty"`
}

// CreateContent publishes a new item. Admin only.
func (c *Client) CreateContent(ctx context.Context, input ContentInput) (models.ContentItem, error) {
	var item models.ContentItem
	err := c.do(ctx, http.MethodPost, "/api/content", input, &item)
	return item, err
}

// DeleteContent removes an item. Admin only.
func (c *Client) DeleteContent(ctx context.Context, contentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/content/"+contentID, nil, nil)
}

func (c *Client) Contacts(ctx context.Context, committee models.Committee) ([]models.Contact, error) {
	path := "/api/contacts"
	if committee != "" {
		path += "?committee=" + url.QueryEscape(string(committee))
	}
	var contacts []models.Contact
	err := c.do(ctx, http.MethodGet, path, nil, &contacts)
	return contacts, err
}

func (c *Client) Songs(ctx context.Context) ([]models.Song, error) {
	var songs []models.Song
	err := c.do(ctx, http.MethodGet, "/api/songs", nil, &songs)
	return songs, err
}

type songAudioResponse struct {
	AudioData string `json:"audio_data"`
}

// SongAudio returns the song's base64-encoded audio payload.
func (c *Client) SongAudio(ctx context.Context, songID string) (string, error) {
	var resp songAudioResponse
	err := c.do(ctx, http.MethodGet, "/api/songs/"+songID+"/audio", nil, &resp)
	return resp.AudioData, err
}
