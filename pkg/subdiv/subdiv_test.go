package subdiv

import (
	"testing"

	"github.com/go3d/raster3d/pkg/halfedge"
	"github.com/go3d/raster3d/pkg/vmath"
)

func addCubeVertex(m *halfedge.Mesh, x, y, z float64) halfedge.VertexID {
	return m.AddVertex(halfedge.VertexData{Position: vmath.Vec3{X: x, Y: y, Z: z}})
}

// cubeMesh builds a closed, manifold unit cube: 8 vertices, 12 edges, 6
// quadrilateral faces.
func cubeMesh(t *testing.T) *halfedge.Mesh {
	t.Helper()
	m := halfedge.NewMesh()
	v := [8]halfedge.VertexID{}
	v[0] = addCubeVertex(m, -1, -1, -1)
	v[1] = addCubeVertex(m, 1, -1, -1)
	v[2] = addCubeVertex(m, 1, 1, -1)
	v[3] = addCubeVertex(m, -1, 1, -1)
	v[4] = addCubeVertex(m, -1, -1, 1)
	v[5] = addCubeVertex(m, 1, -1, 1)
	v[6] = addCubeVertex(m, 1, 1, 1)
	v[7] = addCubeVertex(m, -1, 1, 1)

	faces := [][4]int{
		{4, 5, 6, 7}, // front
		{1, 0, 3, 2}, // back
		{0, 4, 7, 3}, // left
		{5, 1, 2, 6}, // right
		{3, 7, 6, 2}, // top
		{0, 1, 5, 4}, // bottom
	}
	for _, f := range faces {
		if _, err := m.AddFace([]halfedge.VertexID{v[f[0]], v[f[1]], v[f[2]], v[f[3]]}); err != nil {
			t.Fatalf("AddFace: %v", err)
		}
	}
	return m
}

// tetrahedronMesh builds a closed, manifold tetrahedron: 4 vertices, 6
// edges, 4 triangular faces.
func tetrahedronMesh(t *testing.T) *halfedge.Mesh {
	t.Helper()
	m := halfedge.NewMesh()
	a := addCubeVertex(m, 0, 0, 0)
	b := addCubeVertex(m, 1, 0, 0)
	c := addCubeVertex(m, 0, 1, 0)
	d := addCubeVertex(m, 0, 0, 1)

	faces := [][3]halfedge.VertexID{
		{a, b, c},
		{a, c, d},
		{a, d, b},
		{b, d, c},
	}
	for _, f := range faces {
		if _, err := m.AddFace([]halfedge.VertexID{f[0], f[1], f[2]}); err != nil {
			t.Fatalf("AddFace: %v", err)
		}
	}
	return m
}

func TestCatmullClarkCubeVertexAndFaceCounts(t *testing.T) {
	cube := cubeMesh(t)
	result := CatmullClark(cube)

	wantV := 8 + 12 + 6 // V + E + F
	if got := len(result.Vertices()); got != wantV {
		t.Errorf("vertex count = %d, want %d", got, wantV)
	}

	wantF := 24 // each of 6 quad faces becomes 4 quads
	if got := len(result.Faces()); got != wantF {
		t.Errorf("face count = %d, want %d", got, wantF)
	}
}

func TestLoopSubdivisionTetrahedronCounts(t *testing.T) {
	tet := tetrahedronMesh(t)
	result := Loop(tet)

	wantV := 4 + 6 // V + E
	if got := len(result.Vertices()); got != wantV {
		t.Errorf("vertex count = %d, want %d", got, wantV)
	}

	wantF := 4 * 4 // each triangle becomes 4
	if got := len(result.Faces()); got != wantF {
		t.Errorf("face count = %d, want %d", got, wantF)
	}
}

func TestLoopSubdivisionPreservesCentroid(t *testing.T) {
	tet := tetrahedronMesh(t)
	result := Loop(tet)

	var sum vmath.Vec3
	for _, id := range result.Vertices() {
		sum = sum.Add(result.Vertex(id).Data.Position)
	}
	centroid := sum.Scale(1 / float64(len(result.Vertices())))

	// A regular-ish tetrahedron centered near (0.25,0.25,0.25); subdivision
	// should not wildly displace the overall centroid.
	if centroid.Distance(vmath.Vec3{X: 0.25, Y: 0.25, Z: 0.25}) > 0.5 {
		t.Errorf("subdivided centroid drifted too far: %v", centroid)
	}
}
