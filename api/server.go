package api

import (
	"context"

	"tooncraft/archive"
	"tooncraft/entitlements"
	"tooncraft/events"
	"tooncraft/pipeline"
	"tooncraft/types"

	"github.com/gin-gonic/gin"
)

// MediaServices is the capability surface the media controller exposes over
// HTTP. *studio.Studio satisfies it.
type MediaServices interface {
	pipeline.MediaServices
	TranscribeAudio(ctx context.Context, audio []byte) string
	ChatWithDirector(ctx context.Context, history []types.Message, userInput string, age int) (string, error)
}

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Media    MediaServices
	Producer *pipeline.Producer
	Ent      entitlements.Store
	Archive  archive.Store
	Events   events.Publisher
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	if deps.Events == nil {
		deps.Events = events.NopPublisher{}
	}

	RegisterMediaRoutes(r, deps.Media)
	RegisterProductionRoutes(r, deps.Producer, deps.Events)
	RegisterProjectRoutes(r, deps.Archive)
	RegisterEntitlementRoutes(r, deps.Ent)
	RegisterHealthRoutes(r)
	return r
}
