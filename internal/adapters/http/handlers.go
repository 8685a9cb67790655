package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/app"
	"github.com/7cAT-0805/FastTransfer/internal/app/orch"
	"github.com/7cAT-0805/FastTransfer/internal/domain"
)

const apiVersion = "1.0.0"

type Handlers struct {
	Orch *orch.Orchestrator
}

// writeError maps core failures onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, app.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
	case errors.Is(err, app.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
	case errors.Is(err, app.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	default:
		log.Error().Err(err).Str("module", "adapters.http").Msg("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// isBodyTooLarge recognizes MaxBytesReader trips, which multipart
// parsing sometimes surfaces without wrapping.
func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func roomCode(c *gin.Context) domain.RoomCode {
	return domain.NormalizeCode(c.Param("roomId"))
}

func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "FastTransfer API Server",
		"status":  "OK",
		"endpoints": gin.H{
			"health": "/health",
			"api":    "/api/health",
		},
	})
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().Format(time.RFC3339)})
}

func (h *Handlers) APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "FastTransfer API",
		"version":   apiVersion,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handlers) CreateRoom(c *gin.Context) {
	room, err := h.Orch.CreateRoom()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roomId":  room.Code,
		"hostId":  room.HostToken,
		"message": "room created",
	})
}

func (h *Handlers) JoinRoom(c *gin.Context) {
	code := roomCode(c)
	userID, files, err := h.Orch.JoinInfo(code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":  userID,
		"roomId":  code,
		"isHost":  false,
		"files":   files,
		"message": "joined room",
	})
}

func (h *Handlers) VerifyHost(c *gin.Context) {
	var req struct {
		HostID string `json:"hostId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing hostId"})
		return
	}
	isHost, err := h.Orch.VerifyHost(roomCode(c), domain.HostToken(req.HostID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isHost": isHost})
}

func (h *Handlers) UploadFile(c *gin.Context) {
	code := roomCode(c)
	maxBytes := h.Orch.Files.MaxBytes()

	// Cap the request body; the limit is enforced server-side, the
	// client's word on size is never trusted. The extra headroom covers
	// multipart framing.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(c, app.ErrPayloadTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(c, app.ErrPayloadTooLarge)
			return
		}
		writeError(c, err)
		return
	}

	// Host status is proved with the token when the policy needs it;
	// under open uploads anyone in a live room may add files.
	isHost := false
	if token := c.PostForm("hostId"); token != "" {
		isHost, _ = h.Orch.VerifyHost(code, domain.HostToken(token))
	}

	desc, err := h.Orch.Upload(code, isHost, data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "file uploaded",
		"file":    desc,
	})
}

func (h *Handlers) ListFiles(c *gin.Context) {
	files, err := h.Orch.ListFiles(roomCode(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *Handlers) GetFile(c *gin.Context) {
	code := roomCode(c)
	id := domain.FileID(c.Param("fileId"))

	data, name, contentType, err := h.Orch.GetBlob(code, id)
	if err != nil {
		writeError(c, err)
		return
	}

	// Images and PDFs render inline for previews, everything else
	// downloads. RFC 5987 encoding keeps non-ASCII names intact.
	disposition := "attachment"
	if strings.HasPrefix(contentType, "image/") || contentType == "application/pdf" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", disposition+"; filename*=UTF-8''"+url.PathEscape(name))
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, contentType, data)
}
