package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"annfsu/app/internal/models"
)

func (s *Server) ListContent(c *gin.Context) {
	contentType := models.ContentType(c.Param("type"))
	if !contentType.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"detail": "unknown content type"})
		return
	}
	c.JSON(http.StatusOK, s.store.listContent(contentType))
}

type contentCreateRequest struct {
	Type      models.ContentType `json:"type" binding:"required"`
	TitleNe   string             `json:"title_ne" binding:"required"`
	ContentNe string             `json:"content_ne" binding:"required"`
	Images    []string           `json:"images"`
}

func (s *Server) CreateContent(c *gin.Context) {
	var req contentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unknown content type"})
		return
	}

	admin := currentUser(c)
	item := s.store.addContent(models.ContentItem{
		Type:      req.Type,
		TitleNe:   req.TitleNe,
		ContentNe: req.ContentNe,
		Images:    req.Images,
		AuthorID:  admin.ID,
	})

	s.store.logActivity(admin, "create", "content", item.ID, map[string]any{
		"type":  item.Type,
		"title": item.TitleNe,
	})
	c.JSON(http.StatusOK, item)
}

func (s *Server) DeleteContent(c *gin.Context) {
	contentID := c.Param("id")
	if !s.store.deleteContent(contentID) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "content not found"})
		return
	}

	s.store.logActivity(currentUser(c), "delete", "content", contentID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "content deleted"})
}

func (s *Server) ListContacts(c *gin.Context) {
	committee := models.Committee(c.Query("committee"))
	c.JSON(http.StatusOK, s.store.listContacts(committee))
}

func (s *Server) ListSongs(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listSongs())
}

func (s *Server) SongAudio(c *gin.Context) {
	audio, ok := s.store.songAudio(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "song not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audio_data": audio})
}
