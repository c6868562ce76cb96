package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"vin-decoder/internal/decoder"
	"vin-decoder/internal/vin"
)

func (s *Server) handleDecode(c *gin.Context) {
	raw := c.Param("vin")

	v, vehicle, err := s.service.Decode(c.Request.Context(), raw)
	if err != nil {
		s.renderDecodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, DecodeFromVehicle(v.String(), v.ChecksumValid(), vehicle))
}

func (s *Server) handleDecodeSmart(c *gin.Context) {
	raw := c.Param("vin")

	result, err := s.service.DecodeSmart(c.Request.Context(), raw)
	if err != nil {
		s.renderDecodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SmartFromResult(result))
}

func (s *Server) handleDecodeBatch(c *gin.Context) {
	var req BatchDecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Vins) == 0 {
		s.renderError(c, http.StatusBadRequest, errors.New("vins is required"))
		return
	}

	outcome := s.service.DecodeBatch(c.Request.Context(), req.Vins, req.MaxItems)
	c.JSON(http.StatusOK, BatchFromOutcome(outcome))
}

// renderDecodeError maps pipeline failures onto the 400 contract: format
// violations and external-service failures are both user-facing.
func (s *Server) renderDecodeError(c *gin.Context, err error) {
	var validationErr *vin.ValidationError
	if errors.As(err, &validationErr) {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if errors.Is(err, decoder.ErrExternalService) {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	s.renderError(c, http.StatusInternalServerError, err)
}

func (s *Server) handleBatchStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.batchNotifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("batch decode websocket connected")
	defer s.batchNotifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Warn("batch decode websocket unexpected close")
			}
			break
		}
	}
}
