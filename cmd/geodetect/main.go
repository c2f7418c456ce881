package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/geoscan-ai/go-obb/geo"
	"github.com/geoscan-ai/go-obb/images"
	"github.com/geoscan-ai/go-obb/inference"
	"github.com/geoscan-ai/go-obb/pipeline"
)

func main() {
	var (
		modelPath  = flag.String("model", "", "Path to ONNX model file")
		imagePath  = flag.String("image", "", "Path to input image (JPEG, PNG or WebP)")
		firstTIFF  = flag.String("geotiff", "", "Path to georeferenced GeoTIFF input")
		secondTIFF = flag.String("geotiff2", "", "Optional second GeoTIFF of the same area to merge with the first")
		engineType = flag.String("engine", "onnx", "Inference engine: onnx or opencv")
		libPath    = flag.String("ort-lib", "", "Path to ONNX Runtime shared library (onnx engine only)")
		inputSize  = flag.Int("size", 1024, "Model input size")
		numClasses = flag.Int("classes", 15, "Number of model classes")
		confFloor  = flag.Float64("conf", 0.25, "Confidence floor")
		timeout    = flag.Duration("timeout", 10*time.Minute, "Detection timeout")
	)
	flag.Parse()

	if *modelPath == "" {
		log.Fatal("Model path is required (-model)")
	}
	if *imagePath == "" && *firstTIFF == "" {
		log.Fatal("An input is required (-image or -geotiff)")
	}

	engineConfig := inference.DefaultConfig()
	engineConfig.ModelPath = *modelPath
	engineConfig.InputSize = *inputSize
	engineConfig.NumClasses = *numClasses
	engineConfig.LibraryPath = *libPath

	engine, err := newEngine(*engineType, engineConfig)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	detectorConfig := pipeline.DefaultConfig()
	detectorConfig.Slicing.TileSize = *inputSize
	detectorConfig.Slicing.SliceThreshold = *inputSize
	detectorConfig.ConfidenceFloor = float32(*confFloor)
	detector := pipeline.NewDetector(engine, detectorConfig)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	progress := func(done, total int) {
		fmt.Printf("\rProcessed %d/%d tiles", done, total)
		if done == total {
			fmt.Println()
		}
	}

	switch {
	case *secondTIFF != "":
		if *firstTIFF == "" {
			log.Fatal("Merging requires both -geotiff and -geotiff2")
		}
		runGeoPair(ctx, detector, *firstTIFF, *secondTIFF, progress)
	case *firstTIFF != "":
		runGeoTIFF(ctx, detector, *firstTIFF, progress)
	default:
		runImage(ctx, detector, *imagePath, progress)
	}
}

func newEngine(engineType string, config inference.Config) (inference.Engine, error) {
	switch engineType {
	case "onnx":
		return inference.NewORTEngine(config)
	case "opencv":
		return inference.NewDNNEngine(config)
	default:
		return nil, fmt.Errorf("unknown engine type: %s", engineType)
	}
}

func runImage(ctx context.Context, detector *pipeline.Detector, path string, progress pipeline.Progress) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}
	img, err := images.DecodeImage(data, images.FormatFromPath(path))
	if err != nil {
		log.Fatalf("Failed to decode image: %v", err)
	}

	detections, err := detector.Run(ctx, img, progress)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	fmt.Printf("Found %d objects\n", len(detections))
	for _, d := range detections {
		fmt.Printf("  %s\n", d.String())
	}
}

func runGeoTIFF(ctx context.Context, detector *pipeline.Detector, path string, progress pipeline.Progress) {
	raster, err := geo.LoadGeoTIFF(path)
	if err != nil {
		log.Fatalf("Failed to load GeoTIFF: %v", err)
	}

	detections, err := detector.Run(ctx, raster.Image, progress)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	fmt.Printf("Found %d objects (EPSG:%d)\n", len(detections), raster.Ref.EPSG)
	for _, d := range detections {
		center := raster.Ref.PixelToGeo(float64(d.CX), float64(d.CY))
		fmt.Printf("  %s at (%.2f, %.2f)\n", d.String(), center.X, center.Y)
	}
}

func runGeoPair(ctx context.Context, detector *pipeline.Detector, first, second string, progress pipeline.Progress) {
	firstRaster, err := geo.LoadGeoTIFF(first)
	if err != nil {
		log.Fatalf("Failed to load first GeoTIFF: %v", err)
	}
	secondRaster, err := geo.LoadGeoTIFF(second)
	if err != nil {
		log.Fatalf("Failed to load second GeoTIFF: %v", err)
	}

	merged, err := detector.RunGeoPair(ctx, firstRaster, secondRaster, geo.DefaultMergeConfig(), progress)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	fmt.Printf("Found %d objects after merge\n", len(merged))
	for _, d := range merged {
		fmt.Printf("  %s at (%.2f, %.2f)\n", d.String(),
			(d.Bounds.MinX+d.Bounds.MaxX)/2, (d.Bounds.MinY+d.Bounds.MaxY)/2)
	}
}
