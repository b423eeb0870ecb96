// decimate - Triangle mesh simplification tool
//
// Reduces the vertex count of a triangle mesh by greedy quadric-error
// edge collapses, with optional quality bounds on triangle shape,
// normal deviation and Hausdorff distance.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/decimate"
	"github.com/taigrr/decimate/halfedge"
	"github.com/taigrr/decimate/internal/config"
	"github.com/taigrr/decimate/internal/logger"
	"github.com/taigrr/decimate/models"
)

var (
	configPath      string
	logLevel        string
	logFile         string
	targetVertices  int
	targetRatio     float64
	aspectRatio     float64
	edgeLength      float64
	maxValence      int
	normalDeviation float64
	hausdorffError  float64
	cleanFirst      bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "decimate <input.obj|input.stl|input.glb> <output.obj|output.stl>",
		Short: "Triangle mesh simplification",
		Long: `decimate - Triangle mesh simplification

Reduces the vertex count of a triangle mesh by greedy quadric-error
edge collapses. Boundary vertices are preserved, and optional bounds
on triangle aspect ratio, edge length, vertex valence, normal
deviation and Hausdorff distance constrain the result quality.

Supported input formats: OBJ, STL (ascii/binary), GLB/GLTF.
Supported output formats: OBJ, STL (binary).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log to this file in addition to stderr")
	cmd.Flags().IntVar(&targetVertices, "vertices", 0, "Target vertex count (overrides --ratio)")
	cmd.Flags().Float64Var(&targetRatio, "ratio", 0, "Fraction of vertices to keep (0 < r <= 1)")
	cmd.Flags().Float64Var(&aspectRatio, "aspect-ratio", 0, "Max triangle aspect ratio after a collapse (0 = off)")
	cmd.Flags().Float64Var(&edgeLength, "edge-length", 0, "Max length of edges produced by a collapse (0 = off)")
	cmd.Flags().IntVar(&maxValence, "max-valence", 0, "Max vertex valence after a collapse (0 = off)")
	cmd.Flags().Float64Var(&normalDeviation, "normal-deviation", 0, "Max normal cone angle in degrees (0 = off)")
	cmd.Flags().Float64Var(&hausdorffError, "hausdorff", 0, "Max distance of removed vertices to the result (0 = off)")
	cmd.Flags().BoolVar(&cleanFirst, "clean", false, "Clean the mesh before decimating (degenerate/duplicate/internal faces)")

	infoCmd := &cobra.Command{
		Use:   "info <model.obj|model.glb|model.stl>",
		Short: "Display mesh information",
		Long:  "Display information about a mesh file including format, triangle count, vertex count, boundary edges, and bounding box.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
	cmd.AddCommand(infoCmd)

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func run(inputPath, outputPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Log

	mesh, err := loadMesh(inputPath, cfg.Cleanup.MergeTolerance)
	if err != nil {
		return err
	}
	log.Info("loaded mesh",
		zap.String("file", inputPath),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()))

	if cfg.Cleanup.Enabled {
		removed := mesh.CleanMesh()
		if removed > 0 {
			log.Info("cleaned mesh", zap.Int("faces_removed", removed))
		}
	}

	hm, skipped := models.ToHalfedge(mesh)
	if skipped > 0 {
		log.Warn("skipped non-manifold faces", zap.Int("count", skipped))
	}
	if !hm.IsTriangleMesh() {
		return fmt.Errorf("input is not a pure triangle mesh")
	}

	target := cfg.Decimation.TargetVertices
	if target <= 0 {
		ratio := cfg.Decimation.TargetRatio
		if ratio <= 0 || ratio > 1 {
			return fmt.Errorf("target ratio must be in (0, 1], got %g", ratio)
		}
		target = int(float64(hm.VertexCount()) * ratio)
	}
	if target < 4 {
		target = 4
	}

	simp := decimate.NewSimplifier(hm)
	simp.SetLogger(log)
	simp.Initialize(decimate.Criteria{
		AspectRatio:     cfg.Decimation.AspectRatio,
		EdgeLength:      cfg.Decimation.EdgeLength,
		MaxValence:      cfg.Decimation.MaxValence,
		NormalDeviation: cfg.Decimation.NormalDeviation,
		HausdorffError:  cfg.Decimation.HausdorffError,
	})
	simp.Simplify(target)

	result := models.FromHalfedge(hm, mesh.Name)
	log.Info("decimated mesh",
		zap.Int("vertices", result.VertexCount()),
		zap.Int("triangles", result.TriangleCount()))

	if err := saveMesh(result, outputPath); err != nil {
		return err
	}
	log.Info("wrote mesh", zap.String("file", outputPath))
	return nil
}

// applyFlags overlays CLI flags onto the loaded config (flags win).
func applyFlags(cfg *config.Config) {
	if targetVertices > 0 {
		cfg.Decimation.TargetVertices = targetVertices
	}
	if targetRatio > 0 {
		cfg.Decimation.TargetRatio = targetRatio
		if targetVertices == 0 {
			cfg.Decimation.TargetVertices = 0
		}
	}
	if aspectRatio > 0 {
		cfg.Decimation.AspectRatio = aspectRatio
	}
	if edgeLength > 0 {
		cfg.Decimation.EdgeLength = edgeLength
	}
	if maxValence > 0 {
		cfg.Decimation.MaxValence = maxValence
	}
	if normalDeviation > 0 {
		cfg.Decimation.NormalDeviation = normalDeviation
	}
	if hausdorffError > 0 {
		cfg.Decimation.HausdorffError = hausdorffError
	}
	if cleanFirst {
		cfg.Cleanup.Enabled = true
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.LogFile = logFile
	}
}

func loadMesh(path string, mergeTolerance float64) (*models.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return models.LoadGLB(path)
	case ".obj":
		return models.LoadOBJ(path)
	case ".stl":
		loader := models.NewSTLLoader()
		loader.MergeTolerance = mergeTolerance
		return loader.LoadFile(path)
	default:
		return nil, fmt.Errorf("unsupported input format: %s (use .obj, .glb, or .stl)", filepath.Ext(path))
	}
}

func saveMesh(mesh *models.Mesh, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return models.SaveOBJ(mesh, path)
	case ".stl":
		return models.SaveSTL(mesh, path)
	default:
		return fmt.Errorf("unsupported output format: %s (use .obj or .stl)", filepath.Ext(path))
	}
}

func runInfo(modelPath string) error {
	info, err := os.Stat(modelPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	mesh, err := loadMesh(modelPath, 0)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	mesh.CalculateBounds()
	size := mesh.Size()
	center := mesh.Center()

	hm, skipped := models.ToHalfedge(mesh)
	boundaryEdges := 0
	for ei := 0; ei < hm.EdgesSize(); ei++ {
		if hm.IsBoundaryEdge(halfedge.Edge(ei)) {
			boundaryEdges++
		}
	}

	ext := strings.ToLower(filepath.Ext(modelPath))
	fmt.Printf("File:       %s\n", filepath.Base(modelPath))
	fmt.Printf("Format:     %s\n", strings.ToUpper(strings.TrimPrefix(ext, ".")))
	fmt.Printf("Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Println()
	fmt.Printf("Vertices:   %d\n", mesh.VertexCount())
	fmt.Printf("Triangles:  %d\n", mesh.TriangleCount())
	fmt.Printf("Boundary:   %d edges\n", boundaryEdges)
	if skipped > 0 {
		fmt.Printf("Skipped:    %d non-manifold faces\n", skipped)
	}
	fmt.Println()
	fmt.Printf("Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X(), mesh.BoundsMin.Y(), mesh.BoundsMin.Z())
	fmt.Printf("Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X(), mesh.BoundsMax.Y(), mesh.BoundsMax.Z())
	fmt.Printf("Dimensions: %.3f x %.3f x %.3f\n", size.X(), size.Y(), size.Z())
	fmt.Printf("Center:     (%.3f, %.3f, %.3f)\n", center.X(), center.Y(), center.Z())

	return nil
}
