package models

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/taigrr/decimate/halfedge"
)

// ToHalfedge builds a half-edge mesh from the indexed face set.
// Faces that cannot be added without producing a non-manifold
// configuration are skipped; the count of skipped faces is returned.
func ToHalfedge(mesh *Mesh) (*halfedge.Mesh, int) {
	positions := make([]mgl64.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = v.Position
	}
	faces := make([][3]int, len(mesh.Faces))
	for i, f := range mesh.Faces {
		faces[i] = f.V
	}
	return halfedge.FromIndexedFaces(positions, faces)
}

// FromHalfedge converts a half-edge mesh back to an indexed face set.
// The half-edge mesh should be garbage collected first so that indices
// are contiguous; deleted elements are skipped either way.
func FromHalfedge(hm *halfedge.Mesh, name string) *Mesh {
	mesh := NewMesh(name)

	vmap := make([]int, hm.VerticesSize())
	for i := range vmap {
		vmap[i] = -1
	}
	for vi := 0; vi < hm.VerticesSize(); vi++ {
		v := halfedge.Vertex(vi)
		if hm.IsDeletedVertex(v) {
			continue
		}
		vmap[vi] = len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: hm.Position(v)})
	}

	for fi := 0; fi < hm.FacesSize(); fi++ {
		f := halfedge.Face(fi)
		if hm.IsDeletedFace(f) {
			continue
		}
		fv := hm.FaceVertices(f)
		if len(fv) != 3 {
			continue
		}
		mesh.Faces = append(mesh.Faces, Face{
			V: [3]int{vmap[fv[0]], vmap[fv[1]], vmap[fv[2]]},
		})
	}

	mesh.CalculateBounds()
	mesh.CalculateSmoothNormals()
	return mesh
}
