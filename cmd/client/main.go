// Command client sends an image to a running backend and prints the results.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"

	"github.com/cameraapp/go-vision/api"
)

func main() {
	server := flag.String("server", "http://localhost:8000", "backend base URL")
	mode := flag.String("mode", "detect", "detect or classify")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: client [-server URL] [-mode detect|classify] IMAGE")
		os.Exit(2)
	}
	imagePath := flag.Arg(0)

	client := resty.New().SetBaseURL(*server)

	switch *mode {
	case "detect":
		var result api.DetectionResponse
		resp, err := client.R().
			SetFile("file", imagePath).
			SetResult(&result).
			Post("/api/detect")
		exitOnError(resp, err)

		fmt.Printf("%d detections in %.1f ms\n", len(result.Detections), result.InferenceTimeMS)
		for _, d := range result.Detections {
			fmt.Printf("  %-20s %.3f  [%.3f %.3f %.3f %.3f]\n",
				d.Label, d.Confidence, d.BBox[0], d.BBox[1], d.BBox[2], d.BBox[3])
		}

	case "classify":
		var result api.ClassificationResponse
		resp, err := client.R().
			SetFile("file", imagePath).
			SetResult(&result).
			Post("/api/classify")
		exitOnError(resp, err)

		fmt.Printf("top %d classes in %.1f ms\n", len(result.Classifications), result.InferenceTimeMS)
		for _, c := range result.Classifications {
			fmt.Printf("  %-30s %.3f\n", c.Label, c.Confidence)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

func exitOnError(resp *resty.Response, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "request failed:", err)
		os.Exit(1)
	}
	if resp.IsError() {
		fmt.Fprintf(os.Stderr, "server returned %s: %s\n", resp.Status(), resp.String())
		os.Exit(1)
	}
}
