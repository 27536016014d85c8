package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler provides liveness and readiness endpoints.
//
//   - /healthz: always 200 while the process serves requests.
//   - /readyz: 200 when the data source can serve analyses. Only the postgres
//     source has a dependency to probe; remote and local report ready.
type HealthHandler struct {
	source string
	ping   func() error // nil when the source has nothing to probe
}

// NewHealthHandler builds a HealthHandler for the named data source. ping is
// usually (*sql.DB).Ping of the quote cache, or nil.
func NewHealthHandler(source string, ping func() error) *HealthHandler {
	return &HealthHandler{source: source, ping: ping}
}

// Register mounts /healthz and /readyz on r.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.live)
	r.GET("/readyz", h.ready)
}

// live godoc
// @Summary      Liveness probe
// @Description  Always returns OK if the service is running
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (h *HealthHandler) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ready godoc
// @Summary      Readiness probe
// @Description  Returns ready if the data source (the quote cache for the postgres source) is reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "source": h.source, "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "source": h.source})
}
