package decimate

import (
	"testing"

	"github.com/go3d/raster3d/pkg/halfedge"
	"github.com/go3d/raster3d/pkg/vmath"
)

// icosahedronMesh builds a regular icosahedron: 12 vertices, 30 edges, 20
// triangular faces, the standard closed manifold scenario for exercising
// QEM edge collapse.
func icosahedronMesh(t *testing.T) *halfedge.Mesh {
	t.Helper()
	const phi = 1.618033988749895

	coords := [12][3]float64{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}

	m := halfedge.NewMesh()
	var v [12]halfedge.VertexID
	for i, c := range coords {
		pos := vmath.Vec3{X: c[0], Y: c[1], Z: c[2]}
		v[i] = m.AddVertex(halfedge.VertexData{Position: pos, Normal: pos.Normalize()})
	}

	faces := [20][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	for _, f := range faces {
		if _, err := m.AddFace([]halfedge.VertexID{v[f[0]], v[f[1]], v[f[2]]}); err != nil {
			t.Fatalf("AddFace: %v", err)
		}
	}
	return m
}

func liveHalfEdgeCount(m *halfedge.Mesh) int { return len(m.HalfEdges()) }

// TestDecimateIcosahedronFiveCollapses collapses 5 of the icosahedron's 30
// edges and checks the Euler characteristic (V - E + F = 2) still holds,
// as it must for any closed manifold triangle mesh regardless of how many
// edges have been collapsed.
func TestDecimateIcosahedronFiveCollapses(t *testing.T) {
	m := icosahedronMesh(t)
	Decimate(m, 5)

	vCount := len(m.Vertices())
	fCount := len(m.Faces())
	eCount := liveHalfEdgeCount(m) / 2

	if vCount != 7 {
		t.Errorf("vertex count = %d, want 7", vCount)
	}

	euler := vCount - eCount + fCount
	if euler != 2 {
		t.Errorf("Euler characteristic = %d (V=%d E=%d F=%d), want 2", euler, vCount, eCount, fCount)
	}
}

// TestDecimateCollapsedVertexNearEndpoints guards against the QEM solve
// collapsing to the wrong point: every icosahedron vertex sits at distance
// sqrt(1+phi^2) (~1.9) from the origin, so a collapsed vertex landing near
// the origin means the quadric inverse was read incorrectly.
func TestDecimateCollapsedVertexNearEndpoints(t *testing.T) {
	m := icosahedronMesh(t)
	before := map[halfedge.VertexID]bool{}
	for _, v := range m.Vertices() {
		before[v] = true
	}

	Decimate(m, 1)

	var merged vmath.Vec3
	found := false
	for _, v := range m.Vertices() {
		if !before[v] {
			merged = m.Vertex(v).Data.Position
			found = true
			break
		}
	}
	if !found {
		t.Fatal("no new vertex found after one collapse")
	}

	if merged.Len() < 1.0 {
		t.Errorf("collapsed vertex landed at %v (distance %.3f from origin), want near an icosahedron vertex, not the origin", merged, merged.Len())
	}
}

func TestDecimateStopsWhenOutOfCandidates(t *testing.T) {
	m := icosahedronMesh(t)
	Decimate(m, 1000)

	// Collapsing far more edges than the mesh can sustain must not panic,
	// and must leave a non-empty mesh behind.
	if len(m.Vertices()) < 4 {
		t.Errorf("over-decimated mesh has only %d vertices", len(m.Vertices()))
	}
}
