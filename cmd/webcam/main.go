// Command webcam streams camera frames to the backend and prints detections.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"gocv.io/x/gocv"

	"github.com/cameraapp/go-vision/api"
)

func main() {
	server := flag.String("server", "http://localhost:8000", "backend base URL")
	deviceID := flag.Int("device", 0, "video capture device")
	interval := flag.Duration("interval", 500*time.Millisecond, "delay between frames")
	flag.Parse()

	webcam, err := gocv.OpenVideoCapture(*deviceID)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer webcam.Close()

	img := gocv.NewMat()
	defer img.Close()

	client := resty.New().SetBaseURL(*server)

	fmt.Printf("start reading camera device: %v\n", *deviceID)
	for {
		if ok := webcam.Read(&img); !ok {
			fmt.Printf("cannot read device %v\n", *deviceID)
			return
		}
		if img.Empty() {
			continue
		}

		buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
		if err != nil {
			fmt.Println("encode frame:", err)
			continue
		}

		var result api.DetectionResponse
		resp, err := client.R().
			SetFileReader("file", "frame.jpg", bytes.NewReader(buf.GetBytes())).
			SetResult(&result).
			Post("/api/detect")
		buf.Close()
		if err != nil {
			fmt.Println("request failed:", err)
			time.Sleep(*interval)
			continue
		}
		if resp.IsError() {
			fmt.Printf("server returned %s\n", resp.Status())
			time.Sleep(*interval)
			continue
		}

		fmt.Printf("found %d objects in %.1f ms\n", len(result.Detections), result.InferenceTimeMS)
		for _, d := range result.Detections {
			fmt.Printf("  %-20s %.3f\n", d.Label, d.Confidence)
		}

		time.Sleep(*interval)
	}
}
