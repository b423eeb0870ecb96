// Package models provides an indexed face-set mesh representation,
// loading and saving of common triangle-mesh formats (OBJ, STL, GLB/GLTF),
// mesh cleanup operations, and conversion to and from the half-edge kernel.
package models

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mesh represents a triangle mesh as an indexed face set.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin mgl64.Vec3
	BoundsMax mgl64.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
}

// Face represents a triangle face with vertex indices.
type Face struct {
	V [3]int // Indices into Mesh.Vertices
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			m.BoundsMin[i] = min(m.BoundsMin[i], v.Position[i])
			m.BoundsMax[i] = max(m.BoundsMax[i], v.Position[i])
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() mgl64.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Mul(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() mgl64.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateNormals computes face normals and assigns them to vertices.
// This is a simple flat-shading approach; for averaged per-vertex normals
// use CalculateSmoothNormals.
func (m *Mesh) CalculateNormals() {
	for i := range m.Faces {
		f := &m.Faces[i]
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		m.Vertices[f.V[0]].Normal = normal
		m.Vertices[f.V[1]].Normal = normal
		m.Vertices[f.V[2]].Normal = normal
	}
}

// CalculateSmoothNormals computes averaged normals per vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = mgl64.Vec3{}
	}

	// Accumulate area-weighted face normals per vertex
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0)) // don't normalize yet

		m.Vertices[f.V[0]].Normal = m.Vertices[f.V[0]].Normal.Add(normal)
		m.Vertices[f.V[1]].Normal = m.Vertices[f.V[1]].Normal.Add(normal)
		m.Vertices[f.V[2]].Normal = m.Vertices[f.V[2]].Normal.Add(normal)
	}

	for i := range m.Vertices {
		if m.Vertices[i].Normal.Len() > 0 {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
		}
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// faceKey creates a canonical key for a face by sorting vertex indices.
// Two faces with the same vertices (in any order) will have the same key.
func faceKey(v0, v1, v2 int) [3]int {
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	if v1 > v2 {
		v1, v2 = v2, v1
	}
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	return [3]int{v0, v1, v2}
}

// DeduplicateFaces removes duplicate faces from the mesh. Two faces are
// considered duplicates if they have the same three vertices (regardless
// of winding order); only the first occurrence is kept.
// Returns the number of faces removed.
func (m *Mesh) DeduplicateFaces() int {
	if len(m.Faces) == 0 {
		return 0
	}

	seen := make(map[[3]int]bool)
	kept := make([]Face, 0, len(m.Faces))

	for _, f := range m.Faces {
		key := faceKey(f.V[0], f.V[1], f.V[2])
		if !seen[key] {
			seen[key] = true
			kept = append(kept, f)
		}
	}

	removed := len(m.Faces) - len(kept)
	m.Faces = kept
	return removed
}

// RemoveInternalFaces removes pairs of coplanar faces that face opposite
// directions. These typically occur at the seams of merged meshes where
// interior geometry should not survive.
// Returns the number of faces removed.
func (m *Mesh) RemoveInternalFaces() int {
	if len(m.Faces) == 0 {
		return 0
	}

	type faceInfo struct {
		index  int
		normal mgl64.Vec3
	}
	groups := make(map[[3]int][]faceInfo)

	for i, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		key := faceKey(f.V[0], f.V[1], f.V[2])
		groups[key] = append(groups[key], faceInfo{index: i, normal: normal})
	}

	// Mark pairs with opposing normals for removal
	toRemove := make(map[int]bool)
	for _, faceList := range groups {
		if len(faceList) < 2 {
			continue
		}

		for i := range faceList {
			if toRemove[faceList[i].index] {
				continue
			}
			for j := i + 1; j < len(faceList); j++ {
				if toRemove[faceList[j].index] {
					continue
				}
				dot := faceList[i].normal.Dot(faceList[j].normal)
				if dot < -0.99 {
					// Coplanar, opposite facing: interior geometry.
					toRemove[faceList[i].index] = true
					toRemove[faceList[j].index] = true
					break
				}
			}
		}
	}

	if len(toRemove) == 0 {
		return 0
	}

	kept := make([]Face, 0, len(m.Faces)-len(toRemove))
	for i, f := range m.Faces {
		if !toRemove[i] {
			kept = append(kept, f)
		}
	}

	removed := len(m.Faces) - len(kept)
	m.Faces = kept
	return removed
}

// CleanMesh performs all mesh cleanup operations:
//  1. Remove degenerate faces (zero area)
//  2. Remove internal faces (coplanar opposing pairs) - must come before dedup!
//  3. Remove duplicate faces
//  4. Remove unreferenced vertices
//
// Returns the total number of faces removed.
func (m *Mesh) CleanMesh() int {
	removed := 0

	removed += m.RemoveDegenerateFaces()

	// Internal geometry must go before dedup, because DeduplicateFaces
	// would remove one of the pair before we can detect it.
	removed += m.RemoveInternalFaces()

	removed += m.DeduplicateFaces()

	m.RemoveUnreferencedVertices()

	return removed
}

// RemoveDegenerateFaces removes faces with zero or near-zero area.
// Returns the number of faces removed.
func (m *Mesh) RemoveDegenerateFaces() int {
	if len(m.Faces) == 0 {
		return 0
	}

	const minArea = 1e-10
	kept := make([]Face, 0, len(m.Faces))

	for _, f := range m.Faces {
		if f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[0] == f.V[2] {
			continue
		}

		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		area := v1.Sub(v0).Cross(v2.Sub(v0)).Len() * 0.5

		if area > minArea {
			kept = append(kept, f)
		}
	}

	removed := len(m.Faces) - len(kept)
	m.Faces = kept
	return removed
}

// RemoveUnreferencedVertices removes vertices that are not referenced by
// any face, compacting the vertex array and updating face indices.
func (m *Mesh) RemoveUnreferencedVertices() {
	if len(m.Faces) == 0 || len(m.Vertices) == 0 {
		return
	}

	referenced := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		referenced[f.V[0]] = true
		referenced[f.V[1]] = true
		referenced[f.V[2]] = true
	}

	newIndex := make([]int, len(m.Vertices))
	newVertices := make([]MeshVertex, 0, len(m.Vertices))
	for i, v := range m.Vertices {
		if referenced[i] {
			newIndex[i] = len(newVertices)
			newVertices = append(newVertices, v)
		}
	}

	for i := range m.Faces {
		m.Faces[i].V[0] = newIndex[m.Faces[i].V[0]]
		m.Faces[i].V[1] = newIndex[m.Faces[i].V[1]]
		m.Faces[i].V[2] = newIndex[m.Faces[i].V[2]]
	}

	m.Vertices = newVertices
}
