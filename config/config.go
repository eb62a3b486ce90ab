// Package config - Service configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cameraapp/go-vision/models/yolov8"
)

// AppVersion is reported by the remote configuration endpoint.
const AppVersion = "2.0.0"

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`
}

// ModelFile points at one deployable model artifact.
type ModelFile struct {
	// Path is the model file name inside Models.Dir.
	Path string `yaml:"path"`
	// Version is the artifact version reported for OTA updates.
	Version string `yaml:"version"`
	// InputName and OutputName are the ONNX graph tensor names.
	InputName  string `yaml:"input_name"`
	OutputName string `yaml:"output_name"`
}

// ModelsConfig holds model artifact locations.
type ModelsConfig struct {
	// Dir is the directory holding model and label files.
	Dir string `yaml:"dir"`
	// ONNXRuntimeLib optionally points at the onnxruntime shared library.
	ONNXRuntimeLib string `yaml:"onnxruntime_lib"`
	// Detection is the object detection model artifact.
	Detection ModelFile `yaml:"detection"`
	// Classification is the image classification model artifact.
	Classification ModelFile `yaml:"classification"`
}

// LabelsConfig holds label table locations inside Models.Dir.
type LabelsConfig struct {
	COCO     string `yaml:"coco"`
	ImageNet string `yaml:"imagenet"`
}

// ClassificationConfig holds the classification decoding settings.
type ClassificationConfig struct {
	// TopK is the number of ranked results per request.
	TopK int `yaml:"top_k"`
	// MinConfidence is advertised to clients via the config endpoint.
	MinConfidence float32 `yaml:"min_confidence"`
}

// Config is the root service configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Models         ModelsConfig         `yaml:"models"`
	Labels         LabelsConfig         `yaml:"labels"`
	Detection      yolov8.Config        `yaml:"detection"`
	Classification ClassificationConfig `yaml:"classification"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8000"},
		Models: ModelsConfig{
			Dir:            "models",
			Detection: ModelFile{
				Path: "yolov8n.onnx", Version: "1.0.0",
				InputName: "images", OutputName: "output0",
			},
			Classification: ModelFile{
				Path: "efficientnet_lite0.onnx", Version: "1.0.0",
				InputName: "images", OutputName: "output0",
			},
		},
		Labels: LabelsConfig{
			COCO:     "coco_labels.txt",
			ImageNet: "imagenet_labels.txt",
		},
		Detection:      yolov8.DefaultConfig(),
		Classification: ClassificationConfig{TopK: 3, MinConfidence: 0.1},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
//
// Arguments:
//   - path: Path to the YAML file, or "" for defaults.
//
// Returns:
//   - *Config: The merged configuration.
//   - error: A read or parse error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}
