package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vin-decoder/internal/catalog"
	"vin-decoder/internal/decoder"
	"vin-decoder/internal/listing"
	"vin-decoder/internal/pipeline"
	"vin-decoder/internal/store"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	SilentDB       bool
	AllowedOrigins []string
	Decoder        decoder.Config
	Concurrency    int
}

// Server wires HTTP handlers with the decode pipeline and the catalog store.
type Server struct {
	db             *store.Database
	service        *pipeline.Service
	batchNotifier  *BatchNotifier
	allowedOrigins []string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	decoderClient := decoder.NewClient(cfg.Decoder)
	service := pipeline.NewService(
		decoderClient,
		catalog.NewMatcher(db),
		listing.NewDetector(db),
		cfg.Concurrency,
	)

	server := &Server{
		db:             db,
		service:        service,
		batchNotifier:  NewBatchNotifier(),
		allowedOrigins: cfg.AllowedOrigins,
	}

	service.SetProgress(func(progress pipeline.BatchProgress) {
		server.batchNotifier.Broadcast(eventFromProgress(progress))
	})

	return server, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/vin/:vin/decode", s.handleDecode)
		api.GET("/vin/:vin/decode-smart", s.handleDecodeSmart)
		api.POST("/vin/decode-batch", s.handleDecodeBatch)
		api.GET("/vin/decode-batch/stream", s.handleBatchStream)

		api.GET("/catalog/makes", s.handleListMakes)
		api.GET("/catalog/makes/:id/models", s.handleListModels)
		api.GET("/catalog/models/:id/trims", s.handleListTrims)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListMakes(c *gin.Context) {
	makes, err := s.db.ListMakes()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]MakeDTO, 0, len(makes))
	for _, row := range makes {
		dtos = append(dtos, MakeDTO{ID: row.ID, Name: row.Name})
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (s *Server) handleListModels(c *gin.Context) {
	makeID, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	models, err := s.db.FindModelsByMake(makeID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]ModelDTO, 0, len(models))
	for _, row := range models {
		dtos = append(dtos, ModelDTO{ID: row.ID, MakeID: row.MakeID, Name: row.Name})
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (s *Server) handleListTrims(c *gin.Context) {
	modelID, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	year, _ := strconv.Atoi(c.Query("year"))
	if year <= 0 {
		s.renderError(c, http.StatusBadRequest, errors.New("year query parameter is required"))
		return
	}
	trims, err := s.db.FindTrimsByModelAndYear(modelID, year)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]TrimDTO, 0, len(trims))
	for _, row := range trims {
		dtos = append(dtos, TrimDTO{
			ID:         row.ID,
			ModelID:    row.ModelID,
			Name:       row.Name,
			Year:       row.Year,
			EngineSize: row.EngineSize,
			Horsepower: row.Horsepower,
			Cylinders:  row.Cylinders,
			Price:      row.Price,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"message": err.Error()})
}

func parseUintParam(value string) (uint, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("identifier is required")
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier: %w", err)
	}
	if parsed == 0 {
		return 0, errors.New("identifier must be greater than zero")
	}
	return uint(parsed), nil
}
