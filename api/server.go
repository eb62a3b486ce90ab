// Package api - HTTP surface of the vision backend.
package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cameraapp/go-vision/config"
	"github.com/cameraapp/go-vision/inference"
	"github.com/cameraapp/go-vision/models/model"
	"github.com/cameraapp/go-vision/service"
)

// Server wires the inference service into HTTP handlers.
type Server struct {
	svc *service.Service
	cfg *config.Config
	log *zap.Logger
}

// NewServer builds a Server. A nil logger disables logging.
func NewServer(svc *service.Service, cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, cfg: cfg, log: log}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.log))

	r.GET("/", s.health)
	r.GET("/api/config", s.getConfig)
	r.GET("/api/models/info", s.getModelInfo)
	r.GET("/api/models/download/:name", s.downloadModel)
	r.POST("/api/detect", s.detect)
	r.POST("/api/classify", s.classify)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "CameraApp ML Backend is running",
	})
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		AppVersion:                  config.AppVersion,
		MinConfidenceDetection:      s.cfg.Detection.ConfThreshold,
		MinConfidenceClassification: s.cfg.Classification.MinConfidence,
		ModelsAvailable:             s.svc.ModelsAvailable(),
		Features: map[string]bool{
			"object_detection":     s.svc.DetectionLoaded(),
			"image_classification": s.svc.ClassificationLoaded(),
			"ai_log":               true,
			"export":               true,
		},
	})
}

func (s *Server) getModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, ModelInfoResponse{
		YOLOVersion:         s.cfg.Models.Detection.Version,
		EfficientNetVersion: s.cfg.Models.Classification.Version,
	})
}

// downloadModel serves a model artifact for OTA updates. The name parameter is
// reduced to its base component so requests cannot escape the models dir.
func (s *Server) downloadModel(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	path := filepath.Join(s.cfg.Models.Dir, name)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Model " + name + " not found"})
		return
	}

	s.log.Info("serving model download", zap.String("model", name))
	c.FileAttachment(path, name)
}

func (s *Server) detect(c *gin.Context) {
	imageBytes, ok := s.readUpload(c)
	if !ok {
		return
	}

	res, err := s.svc.Detect(c.Request.Context(), imageBytes)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDetectionResponse(res))
}

func (s *Server) classify(c *gin.Context) {
	imageBytes, ok := s.readUpload(c)
	if !ok {
		return
	}

	res, err := s.svc.Classify(c.Request.Context(), imageBytes)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newClassificationResponse(res))
}

// readUpload pulls the multipart "file" part out of the request. On failure it
// writes the 400 response itself and returns ok=false.
func (s *Server) readUpload(c *gin.Context) ([]byte, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing file upload"})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unreadable file upload"})
		return nil, false
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unreadable file upload"})
		return nil, false
	}
	return b, true
}

// writeError maps pipeline errors onto the HTTP taxonomy: missing model 503,
// undecodable image 400, everything else 500.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inference.ErrModelNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "model not loaded"})
	case errors.Is(err, service.ErrBadImage):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid image"})
	case errors.Is(err, model.ErrContractViolation):
		s.log.Error("tensor contract violation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	default:
		s.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}
