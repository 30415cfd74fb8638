package api

import (
	"errors"
	"net/http"
	"strconv"

	"tooncraft/archive"
	"tooncraft/types"

	"github.com/gin-gonic/gin"
)

// RegisterProjectRoutes registers the saved-project endpoints.
func RegisterProjectRoutes(r *gin.Engine, store archive.Store) {
	g := r.Group("/api/projects")
	g.GET("", handleListProjects(store))
	g.POST("", handleSaveProject(store))
	g.GET("/:id", handleGetProject(store))
	g.DELETE("/:id", handleDeleteProject(store))
	g.PUT("/:id/scenes/:sceneId/sfx", handleTagSceneSFX(store))
}

// SaveProjectRequest stores a finished cartoon for later playback.
type SaveProjectRequest struct {
	Title  string        `json:"title"`
	Script *types.Script `json:"script" binding:"required"`
}

// TagSceneSFXRequest attaches a sound effect to one scene of a saved project.
// Tagging goes through the archive, never a live run, so it cannot race an
// in-progress pipeline write.
type TagSceneSFXRequest struct {
	SFXURL string `json:"sfxUrl" binding:"required"`
}

func handleListProjects(store archive.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := store.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	}
}

func handleSaveProject(store archive.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		project := &types.Project{Title: req.Title, Script: req.Script}
		if err := store.Save(c.Request.Context(), project); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save project: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": project.ID, "savedAt": project.SavedAt})
	}
}

func handleGetProject(store archive.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := store.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, archive.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

func handleTagSceneSFX(store archive.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TagSceneSFXRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sceneID, err := strconv.Atoi(c.Param("sceneId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sceneId must be a number"})
			return
		}

		project, err := store.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, archive.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project: " + err.Error()})
			return
		}

		var scene *types.Scene
		if project.Script != nil {
			for _, s := range project.Script.Scenes {
				if s.ID == sceneID {
					scene = s
					break
				}
			}
		}
		if scene == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "scene not found"})
			return
		}
		scene.SFXURL = req.SFXURL

		if err := store.Save(c.Request.Context(), project); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save project: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": project.ID, "sceneId": sceneID, "sfxUrl": req.SFXURL})
	}
}

func handleDeleteProject(store archive.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Delete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
