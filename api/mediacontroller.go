package api

import (
	"encoding/base64"
	"net/http"

	"tooncraft/generation"
	"tooncraft/types"

	"github.com/gin-gonic/gin"
)

// RegisterMediaRoutes registers the direct capability endpoints. These drive
// single generations without the production pipeline, mainly for the editor
// UI (regenerate one scene) and for tooling.
func RegisterMediaRoutes(r *gin.Engine, media MediaServices) {
	g := r.Group("/api/media")
	g.POST("/script", handleGenerateScript(media))
	g.POST("/narration", handleGenerateNarration(media))
	g.POST("/image", handleGenerateImage(media))
	g.POST("/video", handleGenerateVideo(media))
	g.POST("/transcribe", handleTranscribe(media))
	g.POST("/chat", handleChat(media))
}

// GenerateScriptRequest asks for a structured script from a story brief.
type GenerateScriptRequest struct {
	Context    string `json:"context" binding:"required"`
	Age        int    `json:"age" binding:"required"`
	MovieMode  bool   `json:"movieMode"`
	SceneCount int    `json:"sceneCount"`
}

// GenerateNarrationRequest asks for TTS audio for one narrative line.
type GenerateNarrationRequest struct {
	Text string `json:"text" binding:"required"`
	Age  int    `json:"age" binding:"required"`
}

// GenerateImageRequest asks for one scene still. ReferenceImage carries the
// previous scene as base64 for character consistency.
type GenerateImageRequest struct {
	Prompt         string `json:"prompt" binding:"required"`
	Age            int    `json:"age" binding:"required"`
	ReferenceImage string `json:"referenceImage"`
}

// GenerateVideoRequest asks for a video clip from a seed still.
type GenerateVideoRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Image  string `json:"image" binding:"required"`
}

// TranscribeRequest carries recorded audio as base64 WAV.
type TranscribeRequest struct {
	Audio string `json:"audio" binding:"required"`
}

// ChatRequest is one turn of the director brainstorm.
type ChatRequest struct {
	History []types.Message `json:"history"`
	Message string          `json:"message" binding:"required"`
	Age     int             `json:"age" binding:"required"`
}

func respondGenerationError(c *gin.Context, err error) {
	if generation.IsCancelled(err) {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func handleGenerateScript(media MediaServices) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateScriptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.SceneCount <= 0 {
			req.SceneCount = 6
		}
		script, err := media.GenerateScript(c.Request.Context(), req.Context, req.Age, req.MovieMode, req.SceneCount)
		if err != nil {
			respondGenerationError(c, err)
			return
		}
		c.JSON(http.StatusOK, script)
	}
}

func handleGenerateNarration(media MediaServices) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateNarrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		audio, err := media.GenerateNarration(c.Request.Context(), req.Text, req.Age)
		if err != nil {
			respondGenerationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"audio": base64.StdEncoding.EncodeToString(audio)})
	}
}

func handleGenerateImage(media MediaServices) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var ref []byte
		if req.ReferenceImage != "" {
			var err error
			ref, err = base64.StdEncoding.DecodeString(req.ReferenceImage)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "referenceImage is not valid base64"})
				return
			}
		}
		img, err := media.GenerateSceneImage(c.Request.Context(), req.Prompt, req.Age, ref, false)
		if err != nil {
			respondGenerationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"image": base64.StdEncoding.EncodeToString(img)})
	}
}

func handleGenerateVideo(media MediaServices) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateVideoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		seed, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image is not valid base64"})
			return
		}
		video, err := media.GenerateVideo(c.Request.Context(), req.Prompt, seed)
		if err != nil {
			respondGenerationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"video": base64.StdEncoding.EncodeToString(video)})
	}
}

func handleTranscribe(media MediaServices) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TranscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		audio, err := base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "audio is not valid base64"})
			return
		}
		// Transcription never fails outward; silence comes back empty.
		text := media.TranscribeAudio(c.Request.Context(), audio)
		c.JSON(http.StatusOK, gin.H{"text": text})
	}
}

func handleChat(media MediaServices) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		reply, err := media.ChatWithDirector(c.Request.Context(), req.History, req.Message, req.Age)
		if err != nil {
			respondGenerationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}
