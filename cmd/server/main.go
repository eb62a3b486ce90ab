// Command server runs the vision inference backend.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cameraapp/go-vision/api"
	"github.com/cameraapp/go-vision/config"
	"github.com/cameraapp/go-vision/inference"
	"github.com/cameraapp/go-vision/labels"
	"github.com/cameraapp/go-vision/models/yolov8"
	"github.com/cameraapp/go-vision/service"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	cocoLabels := loadLabels(log, filepath.Join(cfg.Models.Dir, cfg.Labels.COCO))
	imagenetLabels := loadLabels(log, filepath.Join(cfg.Models.Dir, cfg.Labels.ImageNet))

	detection := loadSession(log, "detection", inference.ONNXConfig{
		ModelPath:     filepath.Join(cfg.Models.Dir, cfg.Models.Detection.Path),
		InputName:     cfg.Models.Detection.InputName,
		OutputName:    cfg.Models.Detection.OutputName,
		InputShape:    []int{1, 640, 640, 3},
		OutputShape:   []int{1, 4 + yolov8.NumClasses, yolov8.NumAnchors},
		SharedLibPath: cfg.Models.ONNXRuntimeLib,
	})
	defer detection.Close()

	classification := loadSession(log, "classification", inference.ONNXConfig{
		ModelPath:     filepath.Join(cfg.Models.Dir, cfg.Models.Classification.Path),
		InputName:     cfg.Models.Classification.InputName,
		OutputName:    cfg.Models.Classification.OutputName,
		InputShape:    []int{1, 224, 224, 3},
		OutputShape:   []int{1, 1000},
		SharedLibPath: cfg.Models.ONNXRuntimeLib,
	})
	defer classification.Close()

	svc := service.New(service.Options{
		Detection:       detection,
		Classification:  classification,
		COCOLabels:      cocoLabels,
		ImageNetLabels:  imagenetLabels,
		DetectionConfig: cfg.Detection,
		TopK:            cfg.Classification.TopK,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewServer(svc, cfg, log).Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

// loadLabels reads a label table, logging a warning when the file is missing
// or empty. Decoders fall back to synthetic class names in that case.
func loadLabels(log *zap.Logger, path string) labels.Table {
	table, err := labels.Load(path)
	if err != nil {
		log.Warn("load labels", zap.String("path", path), zap.Error(err))
		return nil
	}
	if len(table) == 0 {
		log.Warn("labels file missing or empty", zap.String("path", path))
	}
	return table
}

// loadSession opens an ONNX engine. A load failure degrades that feature to
// 503 responses instead of aborting startup.
func loadSession(log *zap.Logger, name string, cfg inference.ONNXConfig) *inference.Session {
	engine, err := inference.NewONNXEngine(cfg)
	if err != nil {
		log.Warn("model unavailable",
			zap.String("model", name),
			zap.String("path", cfg.ModelPath),
			zap.Error(err))
		return inference.NewSession(nil)
	}
	log.Info("model loaded", zap.String("model", name), zap.String("path", cfg.ModelPath))
	return inference.NewSession(engine)
}
